// Package split materializes scan segments as separate PDF files.
package split

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/discoverytools/docsplit/internal/label"
	"github.com/discoverytools/docsplit/internal/scan"
)

// PageRangeCopier extracts an inclusive, 0-based page range from src
// into a new file at dst.
type PageRangeCopier interface {
	CopyRange(src, dst string, startPage, endPage int) error
}

// Options control one Materialize call.
type Options struct {
	// OutputDir receives the split files. Created if missing.
	OutputDir string
	// FilePrefix is prepended to every output filename. Batch runs use
	// it to key outputs to their source and to make them skippable.
	FilePrefix string
	// DryRun plans filenames without writing anything.
	DryRun bool
	// DeleteOriginal removes the source file, but only after every
	// segment materialized successfully.
	DeleteOriginal bool
}

// OutputFile describes one materialized (or, in a dry run, planned)
// split file. Pages are 0-based and inclusive.
type OutputFile struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	StartPage  int    `json:"start_page"`
	EndPage    int    `json:"end_page"`
	PageCount  int    `json:"page_count"`
	Title      string `json:"title"`
	NoOCRPages int    `json:"no_ocr_page_count,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
}

// Outcome summarizes one Materialize call. Files holds only the
// outputs that were created (or planned, for a dry run).
type Outcome struct {
	Files           []OutputFile `json:"files"`
	Failed          int          `json:"failed,omitempty"`
	OriginalDeleted bool         `json:"original_deleted,omitempty"`
	DryRun          bool         `json:"dry_run,omitempty"`
}

// Materializer turns segments into files, naming each by its document
// type with a per-type counter: affidavit_001.pdf, search_warrant_001.pdf,
// affidavit_002.pdf. Segments containing pages without OCR text get a
// No_OCR_ prefix.
type Materializer struct {
	labeler *label.Labeler
	copier  PageRangeCopier
	log     *slog.Logger
}

// NewMaterializer returns a materializer writing through copier.
func NewMaterializer(labeler *label.Labeler, copier PageRangeCopier, log *slog.Logger) *Materializer {
	if log == nil {
		log = slog.Default()
	}
	return &Materializer{labeler: labeler, copier: copier, log: log}
}

// Plan computes the deterministic output list for segments without
// touching the filesystem. Rerunning the same scan yields the same
// names, so materialization can be safely retried.
func (m *Materializer) Plan(segments []scan.Segment, opts Options) []OutputFile {
	files := make([]OutputFile, 0, len(segments))
	counters := make(map[string]int)

	for _, seg := range segments {
		stem := m.labeler.FileStem(seg.Title)
		counters[stem]++

		prefix := ""
		if seg.HasNoOCRPages() {
			prefix = "No_OCR_"
		}
		name := fmt.Sprintf("%s%s%s_%03d.pdf", opts.FilePrefix, prefix, stem, counters[stem])

		files = append(files, OutputFile{
			Name:       name,
			Path:       filepath.Join(opts.OutputDir, name),
			StartPage:  seg.StartPage,
			EndPage:    seg.EndPage,
			PageCount:  seg.PageCount(),
			Title:      seg.Title,
			NoOCRPages: seg.NoOCRPages,
		})
	}
	return files
}

// Materialize writes one file per segment. Per-segment copy failures
// are logged and counted but do not stop the remaining segments; the
// source file is only deleted when every segment succeeded.
func (m *Materializer) Materialize(ctx context.Context, pdfPath string, segments []scan.Segment, opts Options) (*Outcome, error) {
	plan := m.Plan(segments, opts)

	if opts.DryRun {
		for _, f := range plan {
			m.log.Info("would create",
				"file", f.Name,
				"pages", fmt.Sprintf("%d-%d", f.StartPage+1, f.EndPage+1),
				"page_count", f.PageCount,
				"title", f.Title)
		}
		return &Outcome{Files: plan, DryRun: true}, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	out := &Outcome{Files: make([]OutputFile, 0, len(plan))}
	for _, f := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := m.copier.CopyRange(pdfPath, f.Path, f.StartPage, f.EndPage); err != nil {
			out.Failed++
			m.log.Error("failed to create split file", "file", f.Name, "error", err)
			continue
		}

		if info, err := os.Stat(f.Path); err == nil {
			f.SizeBytes = info.Size()
		}
		m.log.Info("created split file",
			"file", f.Name,
			"pages", fmt.Sprintf("%d-%d", f.StartPage+1, f.EndPage+1),
			"page_count", f.PageCount,
			"size", humanize.Bytes(uint64(f.SizeBytes)),
			"no_ocr_pages", f.NoOCRPages)
		out.Files = append(out.Files, f)
	}

	if opts.DeleteOriginal && out.Failed == 0 {
		if err := os.Remove(pdfPath); err != nil {
			m.log.Warn("failed to delete original file", "path", pdfPath, "error", err)
		} else {
			out.OriginalDeleted = true
			m.log.Info("deleted original file", "path", pdfPath)
		}
	}

	return out, nil
}
