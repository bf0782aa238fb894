package scan

// Segment is a finalized, closed page range inferred to be one logical
// document. Pages are 0-based and the range is inclusive.
type Segment struct {
	StartPage  int    `json:"start_page"`
	EndPage    int    `json:"end_page"`
	Title      string `json:"title"`
	NoOCRPages int    `json:"no_ocr_page_count"`
}

// PageCount returns the number of pages in the segment.
func (s Segment) PageCount() int {
	return s.EndPage - s.StartPage + 1
}

// HasNoOCRPages reports whether any page in the segment lacked usable
// OCR text.
func (s Segment) HasNoOCRPages() bool {
	return s.NoOCRPages > 0
}
