package scan

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/discoverytools/docsplit/internal/checkpoint"
	"github.com/discoverytools/docsplit/internal/detect"
)

// DefaultCheckpointInterval is the fallback page interval between
// checkpoint writes when the configured value is unusable.
const DefaultCheckpointInterval = 50

// PageSource provides the page count and per-page text of one document.
// Pages are 0-based.
type PageSource interface {
	PageCount() int
	PageText(ctx context.Context, page int) (string, error)
}

// Checkpoint is the persisted snapshot of an in-progress scan. LastPage
// is the highest 0-based page fully processed; a resumed scan continues
// at LastPage+1.
type Checkpoint struct {
	ScanID     string    `json:"scan_id"`
	PDFPath    string    `json:"pdf_path"`
	TotalPages int       `json:"total_pages"`
	LastPage   int       `json:"last_page"`
	Segments   []Segment `json:"segments,omitempty"`
	State      State     `json:"state"`
	SavedAt    time.Time `json:"saved_at"`
}

// Options control a single Scan call.
type Options struct {
	// Resume loads a matching checkpoint, if present, instead of
	// starting from page 0.
	Resume bool
}

// Result is the outcome of scanning one document. Segments is nil when
// the document should not be split.
type Result struct {
	ScanID     string    `json:"scan_id"`
	PDFPath    string    `json:"pdf_path"`
	TotalPages int       `json:"total_pages"`
	Segments   []Segment `json:"segments,omitempty"`
	PageErrors int       `json:"page_errors,omitempty"`
	Resumed    bool      `json:"resumed,omitempty"`
}

// ShouldSplit reports whether the scan found more than one document.
func (r *Result) ShouldSplit() bool {
	return len(r.Segments) > 0
}

// Scanner runs the fusion engine over a document's pages, writing
// periodic checkpoints so an interrupted scan can resume losslessly.
type Scanner struct {
	extractor *detect.Extractor
	store     *checkpoint.Store[Checkpoint]
	interval  int
	log       *slog.Logger
}

// NewScanner returns a scanner that checkpoints every interval pages.
func NewScanner(ex *detect.Extractor, store *checkpoint.Store[Checkpoint], interval int, log *slog.Logger) *Scanner {
	if interval < 1 {
		interval = DefaultCheckpointInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{extractor: ex, store: store, interval: interval, log: log}
}

// Scan partitions the document at pdfPath into segments using src for
// page access. On success any checkpoint for the document is removed,
// including when the result is "no split". On context cancellation a
// final checkpoint is written before returning, so the run can be
// resumed.
func (s *Scanner) Scan(ctx context.Context, pdfPath string, src PageSource, opts Options) (*Result, error) {
	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", pdfPath, err)
	}

	total := src.PageCount()
	scanID := uuid.New().String()
	startPage := 0
	resumed := false

	var en *Engine
	if opts.Resume {
		rec, err := s.store.Load(abs)
		if err != nil {
			s.log.Warn("failed to load checkpoint, starting over", "path", abs, "error", err)
		} else if rec != nil {
			if rec.PDFPath == abs && rec.TotalPages == total {
				en = ResumeEngine(total, rec.State, rec.Segments)
				startPage = rec.LastPage + 1
				scanID = rec.ScanID
				resumed = true
				s.log.Info("resuming scan from checkpoint",
					"path", abs,
					"page", startPage+1,
					"total_pages", total,
					"segments_found", en.SegmentCount())
			} else {
				s.log.Warn("checkpoint does not match document, starting over",
					"path", abs,
					"checkpoint_path", rec.PDFPath,
					"checkpoint_pages", rec.TotalPages,
					"pages", total)
			}
		}
	}
	if en == nil {
		en = NewEngine(total)
	}

	pageErrors := 0
	for pageNum := startPage; pageNum < total; pageNum++ {
		select {
		case <-ctx.Done():
			if pageNum > startPage {
				s.saveCheckpoint(abs, scanID, total, pageNum-1, en)
			}
			return nil, ctx.Err()
		default:
		}

		text, err := src.PageText(ctx, pageNum)
		if err != nil {
			pageErrors++
			s.log.Debug("failed to extract page text", "path", abs, "page", pageNum+1, "error", err)
			continue
		}

		closed := en.SegmentCount()
		en.ProcessPage(pageNum, s.extractor.Extract(text))
		if n := en.SegmentCount(); n > closed {
			seg := en.Segments()[n-1]
			s.log.Debug("boundary detected",
				"path", abs,
				"segment", n,
				"pages", fmt.Sprintf("%d-%d", seg.StartPage+1, seg.EndPage+1),
				"title", seg.Title)
		}

		if pageNum > 0 && pageNum%s.interval == 0 {
			s.saveCheckpoint(abs, scanID, total, pageNum, en)
			s.log.Debug("scan progress",
				"path", abs,
				"page", pageNum+1,
				"total_pages", total,
				"segments_found", en.SegmentCount())
		}
	}

	segments := en.Finish()

	if err := s.store.Delete(abs); err != nil {
		s.log.Warn("failed to remove checkpoint", "path", abs, "error", err)
	}

	res := &Result{
		ScanID:     scanID,
		PDFPath:    abs,
		TotalPages: total,
		Segments:   segments,
		PageErrors: pageErrors,
		Resumed:    resumed,
	}
	if segments == nil {
		s.log.Info("document is a single unit, no split needed", "path", abs, "pages", total)
	} else {
		s.log.Info("scan complete",
			"path", abs,
			"pages", total,
			"segments", len(segments),
			"page_errors", pageErrors)
	}
	return res, nil
}

func (s *Scanner) saveCheckpoint(path, scanID string, total, lastPage int, en *Engine) {
	rec := Checkpoint{
		ScanID:     scanID,
		PDFPath:    path,
		TotalPages: total,
		LastPage:   lastPage,
		Segments:   en.Segments(),
		State:      en.State(),
		SavedAt:    time.Now().UTC(),
	}
	if err := s.store.Save(path, rec); err != nil {
		s.log.Warn("failed to save checkpoint", "path", path, "error", err)
	}
}
