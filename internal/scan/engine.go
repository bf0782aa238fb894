// Package scan fuses per-page boundary signals into an ordered list of
// document segments and drives the page loop with crash-safe
// checkpointing.
package scan

import (
	"github.com/discoverytools/docsplit/internal/detect"
)

// Engine is the boundary fusion state machine. Pages are fed in order
// through ProcessPage; Finish closes the trailing segment and returns
// the final list.
//
// Three detection methods are tried per page, strongest first:
//
//  1. An explicit "page X of Y" marker. When X equals Y the segment
//     closes at the current page. Any paged marker, matching or not,
//     ends evaluation for that page.
//  2. A standalone page number resetting to 1 after a higher number,
//     which closes the segment at the previous page.
//  3. A change in the header document type, which also closes at the
//     previous page.
//
// Methods 2 and 3 update their trackers on every page that carries
// their signal, whether or not a boundary fires.
type Engine struct {
	totalPages int
	state      State
	segments   []Segment
}

// NewEngine returns an engine for a document with totalPages pages.
func NewEngine(totalPages int) *Engine {
	return &Engine{totalPages: totalPages}
}

// ResumeEngine reconstructs an engine from checkpointed state so a scan
// can continue where it left off.
func ResumeEngine(totalPages int, state State, segments []Segment) *Engine {
	en := &Engine{totalPages: totalPages, state: state}
	if len(segments) > 0 {
		en.segments = make([]Segment, len(segments))
		copy(en.segments, segments)
	}
	return en
}

// ProcessPage consumes the signals for one page. pageNum is 0-based and
// pages must arrive in ascending order without gaps.
func (en *Engine) ProcessPage(pageNum int, sig detect.PageSignals) {
	if sig.NoOCR {
		en.state.NoOCRCount++
	}

	// Method 1: explicit "page X of Y". A page carrying any paged
	// marker is decided by this method alone.
	if sig.Paged != nil {
		if sig.Paged.Current == sig.Paged.Total {
			title := sig.Title
			if title == "" {
				title = en.state.Title
			}
			if title == "" {
				title = "Unknown"
			}
			en.close(pageNum, title)
			en.state = State{SegmentStart: pageNum + 1}
		}
		if en.state.Title == "" {
			en.state.Title = sig.Title
		}
		return
	}

	// Method 2: standalone page number reset. Seeing 1 after a number
	// greater than 1 means a new document started on this page.
	if sig.Standalone > 0 {
		if sig.Standalone == 1 && en.state.PrevStandalone > 1 && pageNum > en.state.SegmentStart {
			title := en.state.Title
			if title == "" {
				title = "Unknown"
			}
			en.close(pageNum-1, title)
			seed := 0
			if sig.NoOCR {
				seed = 1
			}
			en.state = State{
				SegmentStart: pageNum,
				Title:        sig.Title,
				NoOCRCount:   seed,
			}
		}
		en.state.PrevStandalone = sig.Standalone
	}

	// Method 3: header document type change. The tracker is consulted
	// even on pages where method 2 already ran; only one of the two can
	// actually fire because a method 2 boundary clears PrevHeader.
	if sig.Header != "" {
		if en.state.PrevHeader != "" && sig.Header != en.state.PrevHeader && pageNum > en.state.SegmentStart {
			title := en.state.Title
			if title == "" {
				title = en.state.PrevHeader
			}
			en.close(pageNum-1, title)
			newTitle := sig.Title
			if newTitle == "" {
				newTitle = sig.Header
			}
			seed := 0
			if sig.NoOCR {
				seed = 1
			}
			en.state = State{
				SegmentStart:   pageNum,
				Title:          newTitle,
				NoOCRCount:     seed,
				PrevStandalone: sig.Standalone,
			}
		}
		en.state.PrevHeader = sig.Header
		if en.state.Title == "" {
			title := sig.Title
			if title == "" {
				title = sig.Header
			}
			en.state.Title = title
		}
	}
}

// close appends a segment ending at endPage using the currently open
// segment's start and no-OCR tally.
func (en *Engine) close(endPage int, title string) {
	en.segments = append(en.segments, Segment{
		StartPage:  en.state.SegmentStart,
		EndPage:    endPage,
		Title:      title,
		NoOCRPages: en.state.NoOCRCount,
	})
}

// Finish flushes the trailing open segment and returns the final
// segment list. It returns nil when the document should not be split:
// either no boundary was ever detected, or everything collapsed into a
// single segment.
func (en *Engine) Finish() []Segment {
	if en.state.SegmentStart < en.totalPages {
		if len(en.segments) == 0 {
			return nil
		}
		title := en.state.Title
		if title == "" {
			title = "Unknown"
		}
		en.close(en.totalPages-1, title)
	}
	if len(en.segments) < 2 {
		return nil
	}
	return en.segments
}

// State returns a snapshot of the engine's working state.
func (en *Engine) State() State {
	return en.state
}

// Segments returns a copy of the segments closed so far.
func (en *Engine) Segments() []Segment {
	if len(en.segments) == 0 {
		return nil
	}
	out := make([]Segment, len(en.segments))
	copy(out, en.segments)
	return out
}

// SegmentCount returns the number of segments closed so far.
func (en *Engine) SegmentCount() int {
	return len(en.segments)
}
