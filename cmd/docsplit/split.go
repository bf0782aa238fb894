package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discoverytools/docsplit/internal/batch"
	"github.com/discoverytools/docsplit/internal/report"
)

var (
	splitOutputDir      string
	splitDryRun         bool
	splitDeleteOriginal bool
	splitResume         bool
)

var splitCmd = &cobra.Command{
	Use:   "split <pdf-file>",
	Short: "Split one PDF bundle into individual documents",
	Long: `Split a scanned PDF bundle into one file per detected document.

Output files are named by document type with a per-type counter, for
example search_warrant_001.pdf or affidavit_002.pdf. Segments containing
pages without OCR text get a No_OCR_ prefix so they can be reviewed.
A bundle that turns out to be a single document is left untouched.

Examples:
  docsplit split bundle.pdf
  docsplit split --output-dir ./split/ bundle.pdf
  docsplit split --dry-run bundle.pdf
  docsplit split --delete-original bundle.pdf
  docsplit split --resume huge-bundle.pdf   # continue after a crash`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		runner, err := batch.New(cfg, log)
		if err != nil {
			return err
		}

		rep, err := runner.ProcessFile(cmd.Context(), args[0], batch.FileOptions{
			OutputDir:      splitOutputDir,
			DryRun:         splitDryRun,
			DeleteOriginal: splitDeleteOriginal,
			Resume:         splitResume,
		})
		if err != nil {
			return err
		}

		if report.IsStructured() {
			if err := report.Output(rep); err != nil {
				return err
			}
		} else {
			printReport(rep)
		}

		if rep.Failed > 0 {
			return fmt.Errorf("created %d of %d files", len(rep.Documents), len(rep.Documents)+rep.Failed)
		}
		return nil
	},
}

// printReport writes the human-readable summary for one processed file.
func printReport(rep *report.Report) {
	if !rep.Split {
		fmt.Println("single document (no split needed)")
		return
	}

	if rep.DryRun {
		fmt.Printf("dry run: %d documents detected, no files created\n", len(rep.Documents))
	} else {
		fmt.Printf("%d documents detected\n", len(rep.Documents))
	}
	for _, d := range rep.Documents {
		status := ""
		if d.NoOCRPages > 0 {
			status = fmt.Sprintf(" [%d page(s) without OCR]", d.NoOCRPages)
		}
		fmt.Printf("  -> %s (pages %s)%s\n", d.File, d.Pages, status)
	}
	if rep.PageErrors > 0 {
		fmt.Printf("  %d page(s) could not be read\n", rep.PageErrors)
	}
	if rep.OriginalDeleted {
		fmt.Println("original file deleted")
	}
}

func init() {
	splitCmd.Flags().StringVar(&splitOutputDir, "output-dir", "", "output directory (default: same as input file)")
	splitCmd.Flags().BoolVar(&splitDryRun, "dry-run", false, "show what would be created without writing files")
	splitCmd.Flags().BoolVar(&splitDeleteOriginal, "delete-original", false, "delete the original file after a fully successful split")
	splitCmd.Flags().BoolVar(&splitResume, "resume", false, "resume from a checkpoint left by an interrupted run")

	rootCmd.AddCommand(splitCmd)
}
