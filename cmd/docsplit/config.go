package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discoverytools/docsplit/internal/config"
	"github.com/discoverytools/docsplit/internal/detect"
	"github.com/discoverytools/docsplit/internal/home"
	"github.com/discoverytools/docsplit/internal/label"
	"github.com/discoverytools/docsplit/internal/report"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage docsplit configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write the default configuration to ~/.docsplit/config.yaml, or to the
path given with --config. The generated file documents every pattern
table; edit label.case_patterns to match your jurisdiction's docket
numbers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := cfgFile
		if target == "" {
			h, err := home.New("")
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			target = h.ConfigPath()
		}

		if _, err := os.Stat(target); err == nil && !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", target)
		}

		if err := config.WriteDefault(target); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", target)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		return report.Output(mgr.Get())
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Check the effective configuration against its schema and compile every
pattern table, so bad regexes surface here instead of mid-scan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, err := detect.NewExtractor(cfg.Detect); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if _, err := label.NewLabeler(cfg.Label); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		fmt.Println("configuration valid")
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
