// Package watch monitors a directory and splits PDF bundles as they
// arrive, typically as a companion to a scanner's output folder.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/discoverytools/docsplit/internal/batch"
	"github.com/discoverytools/docsplit/internal/report"
)

// DefaultSettle is how long a file must stay quiet after its last
// write event before processing starts.
const DefaultSettle = 2 * time.Second

// FileProcessor handles one PDF dropped into the watched directory.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string, opts batch.FileOptions) (*report.Report, error)
}

// Options configure a watcher.
type Options struct {
	// Dir is the directory to watch. Subdirectories are not watched.
	Dir string
	// File options applied to each arriving PDF; the output prefix is
	// derived per file.
	File batch.FileOptions
	// SkipPattern excludes filenames, the watcher's own outputs above
	// all, from processing.
	SkipPattern string
	// Settle overrides DefaultSettle.
	Settle time.Duration
	Logger *slog.Logger
}

// Watcher processes PDFs as they appear in a directory. Scanners write
// large files in bursts, so each file is debounced and then polled
// until its size stops changing.
type Watcher struct {
	proc   FileProcessor
	opts   Options
	log    *slog.Logger
	settle time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New returns a watcher for opts.Dir.
func New(proc FileProcessor, opts Options) *Watcher {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		proc:    proc,
		opts:    opts,
		log:     log,
		settle:  settle,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches until ctx is cancelled, picking up files already in the
// directory first. In-flight files finish processing before Run
// returns.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.opts.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.opts.Dir, err)
	}
	w.log.Info("watching for PDFs", "dir", w.opts.Dir)

	defer func() {
		w.mu.Lock()
		for path, t := range w.pending {
			// Stop reports true when the timer never fired, meaning
			// handle will not run for this path.
			if t.Stop() {
				w.wg.Done()
			}
			delete(w.pending, path)
		}
		w.mu.Unlock()
		w.wg.Wait()
	}()

	// Files already sitting in the directory never produce events, so
	// they are fed through the same settle pipeline on startup.
	entries, err := os.ReadDir(w.opts.Dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", w.opts.Dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			w.schedule(ctx, filepath.Join(w.opts.Dir, entry.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)
		}
	}
}

// schedule arms (or re-arms) the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !w.relevant(filepath.Base(path)) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.wg.Add(1)
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.handle(ctx, path)
	})
}

// relevant reports whether a filename is a PDF the watcher should
// process.
func (w *Watcher) relevant(name string) bool {
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return false
	}
	if w.opts.SkipPattern != "" && strings.Contains(name, w.opts.SkipPattern) {
		return false
	}
	return true
}

func (w *Watcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	if err := w.waitForStable(ctx, path); err != nil {
		w.log.Warn("file never stabilized, skipping", "file", filepath.Base(path), "error", err)
		return
	}

	opts := w.opts.File
	opts.FilePrefix = batch.OutputPrefix(path, w.opts.SkipPattern)

	rep, err := w.proc.ProcessFile(ctx, path, opts)
	if err != nil {
		w.log.Error("failed to process file", "file", filepath.Base(path), "error", err)
		return
	}
	if rep.Split {
		w.log.Info("split complete", "file", filepath.Base(path), "documents", len(rep.Documents))
	} else {
		w.log.Info("single document, left in place", "file", filepath.Base(path))
	}
}

// waitForStable polls the file size until it stops changing, so a scan
// still being written is not split half-way.
func (w *Watcher) waitForStable(ctx context.Context, path string) error {
	var lastSize int64 = -1
	return retry.Do(
		func() error {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.Size() == 0 || info.Size() != lastSize {
				lastSize = info.Size()
				return fmt.Errorf("still being written: %s", filepath.Base(path))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(10),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
