package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/discoverytools/docsplit/internal/batch"
	"github.com/discoverytools/docsplit/internal/config"
	"github.com/discoverytools/docsplit/internal/report"
	"github.com/discoverytools/docsplit/internal/watch"
)

var (
	watchOutputDir      string
	watchDeleteOriginal bool
	watchSettle         time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and split PDFs as they arrive",
	Long: `Watch a directory and split each PDF bundle dropped into it, for
example a network scanner's output folder.

A new file is processed once it has stopped growing, so half-written
scans are never split. Outputs carry the skip pattern in their names and
are ignored by the watcher. Subdirectories are not watched.

Configuration changes are picked up without restarting: edits to the
config file take effect for the next arriving PDF.

Examples:
  docsplit watch ./incoming/
  docsplit watch --output-dir ./split/ ./incoming/
  docsplit watch --delete-original ./incoming/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		if err := cfg.Validate(); err != nil {
			return err
		}

		runner, err := batch.New(cfg, log)
		if err != nil {
			return err
		}
		proc := &reloadingProcessor{runner: runner}

		mgr.OnChange(func(next *config.Config) {
			if err := next.Validate(); err != nil {
				log.Warn("ignoring invalid configuration change", "error", err)
				return
			}
			r, err := batch.New(next, log)
			if err != nil {
				log.Warn("ignoring unusable configuration change", "error", err)
				return
			}
			proc.swap(r)
			log.Info("configuration reloaded")
		})
		mgr.WatchConfig()

		w := watch.New(proc, watch.Options{
			Dir: args[0],
			File: batch.FileOptions{
				OutputDir:      watchOutputDir,
				DeleteOriginal: watchDeleteOriginal,
			},
			SkipPattern: cfg.Batch.SkipPattern,
			Settle:      watchSettle,
			Logger:      log,
		})

		// Ctrl+C is the normal way to stop watching, not a failure.
		if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Info("watcher stopped")
		return nil
	},
}

// reloadingProcessor routes each file to the most recently loaded
// runner, so config edits apply without restarting the watcher.
type reloadingProcessor struct {
	mu     sync.RWMutex
	runner *batch.Runner
}

func (p *reloadingProcessor) swap(r *batch.Runner) {
	p.mu.Lock()
	p.runner = r
	p.mu.Unlock()
}

func (p *reloadingProcessor) ProcessFile(ctx context.Context, path string, opts batch.FileOptions) (*report.Report, error) {
	p.mu.RLock()
	r := p.runner
	p.mu.RUnlock()
	return r.ProcessFile(ctx, path, opts)
}

func init() {
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "", "output directory (default: the watched directory)")
	watchCmd.Flags().BoolVar(&watchDeleteOriginal, "delete-original", false, "delete originals after fully successful splits")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "quiet period before a new file is processed")

	rootCmd.AddCommand(watchCmd)
}
