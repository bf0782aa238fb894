// Package batch orchestrates scanning and splitting, for single files
// and for whole directories of scanned bundles.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/discoverytools/docsplit/internal/checkpoint"
	"github.com/discoverytools/docsplit/internal/config"
	"github.com/discoverytools/docsplit/internal/detect"
	"github.com/discoverytools/docsplit/internal/label"
	"github.com/discoverytools/docsplit/internal/pdfio"
	"github.com/discoverytools/docsplit/internal/report"
	"github.com/discoverytools/docsplit/internal/scan"
	"github.com/discoverytools/docsplit/internal/split"
)

// FileOptions control processing of one PDF.
type FileOptions struct {
	// OutputDir receives split files; defaults to the source's directory.
	OutputDir string
	// FilePrefix is prepended to output filenames.
	FilePrefix string
	DryRun     bool
	// DeleteOriginal retires the source after a fully successful split.
	DeleteOriginal bool
	// Resume continues from a checkpoint left by an interrupted run.
	Resume bool
}

// DirOptions control processing of a directory.
type DirOptions struct {
	FileOptions
	// Recursive descends into subdirectories.
	Recursive bool
}

// Stats aggregates a directory run.
type Stats struct {
	Examined       int `json:"examined" yaml:"examined"`
	Split          int `json:"split" yaml:"split"`
	SingleDocument int `json:"single_document" yaml:"single_document"`
	Skipped        int `json:"skipped" yaml:"skipped"`
	Errors         int `json:"errors" yaml:"errors"`
	FilesCreated   int `json:"files_created" yaml:"files_created"`
}

// Runner wires the extractor, labeler and copier into a processing
// pipeline. One Runner is safe for concurrent use; each document keeps
// its own checkpoint and outputs.
type Runner struct {
	cfg       *config.Config
	extractor *detect.Extractor
	labeler   *label.Labeler
	mat       *split.Materializer
	log       *slog.Logger

	// processFile indirection lets directory-level tests stub the
	// per-file pipeline.
	processFile func(ctx context.Context, path string, opts FileOptions) (*report.Report, error)
}

// New builds a runner from configuration.
func New(cfg *config.Config, log *slog.Logger) (*Runner, error) {
	if log == nil {
		log = slog.Default()
	}
	ex, err := detect.NewExtractor(cfg.Detect)
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor: %w", err)
	}
	lb, err := label.NewLabeler(cfg.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to build labeler: %w", err)
	}

	r := &Runner{
		cfg:       cfg,
		extractor: ex,
		labeler:   lb,
		mat:       split.NewMaterializer(lb, pdfio.Copier{}, log),
		log:       log,
	}
	r.processFile = r.ProcessFile
	return r, nil
}

// ProcessFile scans one PDF and, when it contains multiple documents,
// splits it. An explicitly named file is always processed, even if its
// name matches the batch skip pattern.
func (r *Runner) ProcessFile(ctx context.Context, path string, opts FileOptions) (*report.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("PDF not found: %s", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a PDF", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("not a PDF file: %s", path)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	cpDir := r.cfg.Checkpoint.Dir
	if cpDir == "" {
		cpDir = outDir
	}
	store := checkpoint.NewStore[scan.Checkpoint](cpDir)
	scanner := scan.NewScanner(r.extractor, store, r.cfg.Checkpoint.Interval, r.log)

	reader, err := pdfio.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	r.log.Info("processing",
		"file", filepath.Base(path),
		"pages", reader.PageCount(),
		"size", humanize.Bytes(uint64(info.Size())))

	res, err := scanner.Scan(ctx, path, reader, scan.Options{Resume: opts.Resume})
	if err != nil {
		return nil, err
	}

	if !res.ShouldSplit() {
		return report.New(res, nil), nil
	}

	outcome, err := r.mat.Materialize(ctx, res.PDFPath, res.Segments, split.Options{
		OutputDir:      outDir,
		FilePrefix:     opts.FilePrefix,
		DryRun:         opts.DryRun,
		DeleteOriginal: opts.DeleteOriginal,
	})
	if err != nil {
		return nil, err
	}
	return report.New(res, outcome), nil
}

// ProcessDir processes every PDF in dir. Files whose names contain the
// skip pattern are ignored, so a directory can be reprocessed without
// re-splitting previous outputs. Per-file failures are counted and do
// not stop the run.
func (r *Runner) ProcessDir(ctx context.Context, dir string, opts DirOptions) (*Stats, error) {
	paths, skipped, err := r.discover(dir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Skipped: skipped}
	if len(paths) == 0 {
		r.log.Info("no PDFs to process", "dir", dir, "skipped", skipped)
		return stats, nil
	}

	workers := r.cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	r.log.Info("batch starting", "dir", dir, "files", len(paths), "workers", workers)

	type fileResult struct {
		path string
		rep  *report.Report
		err  error
	}
	results := make(chan fileResult, len(paths))
	sem := make(chan struct{}, workers)

	for _, p := range paths {
		sem <- struct{}{} // acquire
		go func(path string) {
			defer func() { <-sem }() // release

			fileOpts := opts.FileOptions
			fileOpts.FilePrefix = OutputPrefix(path, r.cfg.Batch.SkipPattern)
			rep, err := r.processFile(ctx, path, fileOpts)
			results <- fileResult{path: path, rep: rep, err: err}
		}(p)
	}

	for range paths {
		res := <-results
		stats.Examined++
		if res.err != nil {
			stats.Errors++
			r.log.Error("failed to process file", "file", filepath.Base(res.path), "error", res.err)
			continue
		}
		if res.rep.Split {
			stats.Split++
			if !res.rep.DryRun {
				stats.FilesCreated += len(res.rep.Documents)
			}
			if res.rep.Failed > 0 {
				stats.Errors++
			}
		} else {
			stats.SingleDocument++
		}
	}

	r.log.Info("batch complete",
		"examined", stats.Examined,
		"split", stats.Split,
		"single_document", stats.SingleDocument,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"files_created", stats.FilesCreated)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// OutputPrefix keys a source's outputs to its filename and embeds the
// skip pattern, so reprocessing the directory ignores them.
func OutputPrefix(path, skipPattern string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if skipPattern == "" {
		skipPattern = "_split_"
	}
	return stem + skipPattern
}

// discover lists the PDFs under dir in sorted order, counting files
// excluded by the skip pattern.
func (r *Runner) discover(dir string, recursive bool) (paths []string, skipped int, err error) {
	pattern := r.cfg.Batch.SkipPattern

	consider := func(path, name string) {
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			return
		}
		if pattern != "" && strings.Contains(name, pattern) {
			skipped++
			return
		}
		paths = append(paths, path)
	}

	if recursive {
		err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				consider(path, d.Name())
			}
			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to walk directory %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			consider(filepath.Join(dir, entry.Name()), entry.Name())
		}
	}

	sort.Strings(paths)
	return paths, skipped, nil
}
