package scan

// State carries the fusion engine's working state between pages. It is
// serialized into checkpoints so an interrupted scan can resume without
// re-reading earlier pages.
//
// Zero values are the "nothing seen yet" sentinels: an empty Title means
// no title has been captured for the open segment, PrevStandalone 0 means
// no standalone page number has been observed since the last boundary,
// and an empty PrevHeader means no header token has.
type State struct {
	SegmentStart   int    `json:"segment_start"`
	Title          string `json:"title,omitempty"`
	NoOCRCount     int    `json:"no_ocr_count,omitempty"`
	PrevStandalone int    `json:"prev_standalone,omitempty"`
	PrevHeader     string `json:"prev_header,omitempty"`
}
