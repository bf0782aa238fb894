package report

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/discoverytools/docsplit/internal/scan"
	"github.com/discoverytools/docsplit/internal/split"
)

// Report is the full outcome of processing one document.
type Report struct {
	Source          string     `json:"source" yaml:"source"`
	ScanID          string     `json:"scan_id" yaml:"scan_id"`
	TotalPages      int        `json:"total_pages" yaml:"total_pages"`
	Split           bool       `json:"split" yaml:"split"`
	Resumed         bool       `json:"resumed,omitempty" yaml:"resumed,omitempty"`
	DryRun          bool       `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	PageErrors      int        `json:"page_errors,omitempty" yaml:"page_errors,omitempty"`
	Documents       []Document `json:"documents,omitempty" yaml:"documents,omitempty"`
	Failed          int        `json:"failed,omitempty" yaml:"failed,omitempty"`
	OriginalDeleted bool       `json:"original_deleted,omitempty" yaml:"original_deleted,omitempty"`
}

// Document is one created (or planned) split file. Pages is 1-based
// and inclusive, formatted for humans.
type Document struct {
	File       string `json:"file" yaml:"file"`
	Pages      string `json:"pages" yaml:"pages"`
	PageCount  int    `json:"page_count" yaml:"page_count"`
	Title      string `json:"title" yaml:"title"`
	NoOCRPages int    `json:"no_ocr_pages,omitempty" yaml:"no_ocr_pages,omitempty"`
	Size       string `json:"size,omitempty" yaml:"size,omitempty"`
}

// New builds a report from a scan result and, when the document was
// split, its materialization outcome. outcome may be nil for a
// single-document result.
func New(res *scan.Result, outcome *split.Outcome) *Report {
	r := &Report{
		Source:     res.PDFPath,
		ScanID:     res.ScanID,
		TotalPages: res.TotalPages,
		Split:      res.ShouldSplit(),
		Resumed:    res.Resumed,
		PageErrors: res.PageErrors,
	}
	if outcome == nil {
		return r
	}

	r.DryRun = outcome.DryRun
	r.Failed = outcome.Failed
	r.OriginalDeleted = outcome.OriginalDeleted
	for _, f := range outcome.Files {
		doc := Document{
			File:       f.Name,
			Pages:      fmt.Sprintf("%d-%d", f.StartPage+1, f.EndPage+1),
			PageCount:  f.PageCount,
			Title:      f.Title,
			NoOCRPages: f.NoOCRPages,
		}
		if f.SizeBytes > 0 {
			doc.Size = humanize.Bytes(uint64(f.SizeBytes))
		}
		r.Documents = append(r.Documents, doc)
	}
	return r
}
