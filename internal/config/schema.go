package config

// Config holds docsplit configuration.
// Loaded from: --config flag, ./config.yaml, or ~/.docsplit/config.yaml
type Config struct {
	Detect     DetectCfg     `mapstructure:"detect" yaml:"detect" json:"detect"`
	Label      LabelCfg      `mapstructure:"label" yaml:"label" json:"label"`
	Checkpoint CheckpointCfg `mapstructure:"checkpoint" yaml:"checkpoint" json:"checkpoint"`
	Batch      BatchCfg      `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// DetectCfg configures boundary signal extraction. Pattern entries are
// regular expressions compiled case-insensitive and multi-line; keyword
// tables are ordered, most specific first.
type DetectCfg struct {
	// PageOfPatterns match explicit "page X of Y" cues; each needs two
	// capture groups (current page, total pages).
	PageOfPatterns []string `mapstructure:"page_of_patterns" yaml:"page_of_patterns" json:"page_of_patterns"`
	// StandalonePatterns match bare page counters; each needs one capture group.
	StandalonePatterns []string `mapstructure:"standalone_patterns" yaml:"standalone_patterns" json:"standalone_patterns"`
	// HeaderTypes are document-type keywords searched in page headers,
	// in priority order ("SEARCH WARRANT" before "WARRANT").
	HeaderTypes []string `mapstructure:"header_types" yaml:"header_types" json:"header_types"`

	// Search windows, in characters. Cues live in headers and footers, so
	// only the head and tail of a page's text are searched.
	PageOfWindow     int `mapstructure:"page_of_window" yaml:"page_of_window" json:"page_of_window"`
	StandaloneWindow int `mapstructure:"standalone_window" yaml:"standalone_window" json:"standalone_window"`
	TailWindow       int `mapstructure:"tail_window" yaml:"tail_window" json:"tail_window"`
	HeaderWindow     int `mapstructure:"header_window" yaml:"header_window" json:"header_window"`
	TitleWindow      int `mapstructure:"title_window" yaml:"title_window" json:"title_window"`

	// TitleMaxLines bounds how many leading lines are considered for a title.
	TitleMaxLines  int `mapstructure:"title_max_lines" yaml:"title_max_lines" json:"title_max_lines"`
	MinTitleLength int `mapstructure:"min_title_length" yaml:"min_title_length" json:"min_title_length"`
	MaxTitleLength int `mapstructure:"max_title_length" yaml:"max_title_length" json:"max_title_length"`

	// MinTextLength is the threshold below which a page counts as having
	// no usable OCR text.
	MinTextLength int `mapstructure:"min_text_length" yaml:"min_text_length" json:"min_text_length"`
	// MaxStandalonePage rejects OCR garbage masquerading as a page number.
	MaxStandalonePage int `mapstructure:"max_standalone_page" yaml:"max_standalone_page" json:"max_standalone_page"`
}

// LabelCfg configures document-type and case-identifier labeling.
type LabelCfg struct {
	// Types maps title keywords to filename-safe type names, in priority
	// order (longer phrases before their substrings).
	Types []TypeMapping `mapstructure:"types" yaml:"types" json:"types"`
	// CasePatterns extract a case/docket identifier, in priority order.
	// Customize per jurisdiction.
	CasePatterns []string `mapstructure:"case_patterns" yaml:"case_patterns" json:"case_patterns"`
	// DefaultType names segments whose title matches no keyword.
	DefaultType string `mapstructure:"default_type" yaml:"default_type" json:"default_type"`
}

// TypeMapping pairs a title keyword with its filename-safe type name.
type TypeMapping struct {
	Keyword string `mapstructure:"keyword" yaml:"keyword" json:"keyword"`
	Name    string `mapstructure:"name" yaml:"name" json:"name"`
}

// CheckpointCfg configures crash-recovery checkpointing.
type CheckpointCfg struct {
	// Interval is the page count between checkpoint writes.
	Interval int `mapstructure:"interval" yaml:"interval" json:"interval"`
	// Dir overrides where checkpoint sidecars are written
	// (default: the output directory).
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// BatchCfg configures directory-level processing.
type BatchCfg struct {
	// SkipPattern is a filename substring marking already-split outputs.
	SkipPattern string `mapstructure:"skip_pattern" yaml:"skip_pattern" json:"skip_pattern"`
	// Workers bounds concurrent document processing. Documents are
	// independent (separate sidecars and outputs), so this is safe > 1.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// DefaultConfig returns configuration with sensible defaults. The pattern
// tables reproduce the heuristics tuned on scanned discovery bundles; an
// empty config file behaves identically to no config file.
func DefaultConfig() *Config {
	return &Config{
		Detect: DetectCfg{
			PageOfPatterns: []string{
				`PAGE\s+(\d+)\s+OF\s+(\d+)`,        // "PAGE 3 OF 5"
				`PA\s*[GE]+\s*(\d+)\s+OF\s*(\d+)`,  // OCR-garbled "PA GE3 OF5"
				`Page\s+(\d+)\s+of\s+(\d+)`,        // "Page 3 of 5"
				`(\d+)\s+of\s+(\d+)\s+pages?`,      // "3 of 5 pages"
			},
			StandalonePatterns: []string{
				`PAGE\s+(\d+)\s*$`,          // "PAGE 3" at end of line
				`Page\s+(\d+)\s*$`,          // "Page 3" at end of line
				`^PAGE\s+(\d+)`,             // "PAGE 3" at start of line
				`^Page\s+(\d+)`,             // "Page 3" at start of line
				`[-–—]\s*(\d+)\s*[-–—]`,     // "- 3 -" or "— 3 —"
				`PAGE\s+(\d+)\s*\n`,         // "PAGE 3" followed by newline
				`Page\s+(\d+)\s*\n`,         // "Page 3" followed by newline
			},
			HeaderTypes: []string{
				"SEARCH WARRANT",
				"AFFIDAVIT",
				"SUBPOENA",
				"COURT ORDER",
				"RETURN AND TABULATION",
				"RETURN OF SERVICE",
				"MOTION",
				"DECLARATION",
				"EXHIBIT",
				"COMPLAINT",
				"ANSWER",
				"SUMMONS",
				"PETITION",
				"ORDER",
				"WARRANT",
				"NOTICE",
				"CERTIFICATE",
			},
			PageOfWindow:      2000,
			StandaloneWindow:  1000,
			TailWindow:        500,
			HeaderWindow:      500,
			TitleWindow:       500,
			TitleMaxLines:     10,
			MinTitleLength:    10,
			MaxTitleLength:    100,
			MinTextLength:     50,
			MaxStandalonePage: 9999,
		},
		Label: LabelCfg{
			Types: []TypeMapping{
				{Keyword: "search warrant", Name: "search_warrant"},
				{Keyword: "affidavit", Name: "affidavit"},
				{Keyword: "subpoena", Name: "subpoena"},
				{Keyword: "court order", Name: "court_order"},
				{Keyword: "return and tabulation", Name: "return_tabulation"},
				{Keyword: "return of service", Name: "return_of_service"},
				{Keyword: "return", Name: "return"},
				{Keyword: "motion", Name: "motion"},
				{Keyword: "declaration", Name: "declaration"},
				{Keyword: "exhibit", Name: "exhibit"},
				{Keyword: "complaint", Name: "complaint"},
				{Keyword: "answer", Name: "answer"},
				{Keyword: "summons", Name: "summons"},
				{Keyword: "petition", Name: "petition"},
				{Keyword: "order", Name: "order"},
				{Keyword: "warrant", Name: "warrant"},
				{Keyword: "notice", Name: "notice"},
				{Keyword: "certificate", Name: "certificate"},
			},
			CasePatterns: []string{
				`tnt-?\d+-\d+`,                             // TNT-72-24
				`ccu-?\d+-\d+`,                             // CCU-02587-2024
				`\d+th\s+district`,                         // 86th District
				`\d+-cv-\d+`,                               // 2024-CV-001
				`case\s*(?:no|number)[:\s]*([a-z0-9\-]+)`,  // Case No: XXX
			},
			DefaultType: "legal_document",
		},
		Checkpoint: CheckpointCfg{
			Interval: 50,
		},
		Batch: BatchCfg{
			SkipPattern: "_split_",
			Workers:     1,
		},
	}
}
