package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discoverytools/docsplit/internal/batch"
	"github.com/discoverytools/docsplit/internal/report"
)

var (
	batchOutputDir      string
	batchRecursive      bool
	batchDryRun         bool
	batchDeleteOriginal bool
	batchResume         bool
	batchWorkers        int
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Split every PDF bundle in a directory",
	Long: `Process every PDF in a directory, splitting the ones that contain
multiple documents.

Outputs are prefixed with their source filename and the skip pattern
(bundle_split_affidavit_001.pdf), so re-running the same directory never
re-splits previous outputs. Files are processed independently; one bad
PDF does not stop the rest.

Examples:
  docsplit batch ./scans/
  docsplit batch --recursive ./scans/
  docsplit batch --workers 4 ./scans/
  docsplit batch --dry-run ./scans/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if batchWorkers > 0 {
			cfg.Batch.Workers = batchWorkers
		}

		runner, err := batch.New(cfg, log)
		if err != nil {
			return err
		}

		stats, err := runner.ProcessDir(cmd.Context(), args[0], batch.DirOptions{
			FileOptions: batch.FileOptions{
				OutputDir:      batchOutputDir,
				DryRun:         batchDryRun,
				DeleteOriginal: batchDeleteOriginal,
				Resume:         batchResume,
			},
			Recursive: batchRecursive,
		})
		if err != nil {
			return err
		}

		if report.IsStructured() {
			if err := report.Output(stats); err != nil {
				return err
			}
		} else {
			fmt.Printf("examined %d file(s): %d split, %d single document, %d skipped, %d errors, %d files created\n",
				stats.Examined, stats.Split, stats.SingleDocument, stats.Skipped, stats.Errors, stats.FilesCreated)
		}

		if stats.Errors > 0 {
			return fmt.Errorf("%d file(s) failed", stats.Errors)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "output directory (default: each file's own directory)")
	batchCmd.Flags().BoolVar(&batchRecursive, "recursive", false, "descend into subdirectories")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "show what would be created without writing files")
	batchCmd.Flags().BoolVar(&batchDeleteOriginal, "delete-original", false, "delete originals after fully successful splits")
	batchCmd.Flags().BoolVar(&batchResume, "resume", false, "resume files from checkpoints left by interrupted runs")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent files (default: from config)")

	rootCmd.AddCommand(batchCmd)
}
