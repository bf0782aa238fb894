// Package label converts segment titles into filename-safe document
// type names, with an optional case identifier suffix.
package label

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/discoverytools/docsplit/internal/config"
)

// Labeler maps titles to filename stems using ordered keyword and case
// pattern tables.
type Labeler struct {
	types       []config.TypeMapping
	casePats    []*regexp.Regexp
	defaultType string
}

// NewLabeler compiles the case patterns and returns a labeler. Keyword
// matching is case-insensitive.
func NewLabeler(cfg config.LabelCfg) (*Labeler, error) {
	types := make([]config.TypeMapping, len(cfg.Types))
	for i, m := range cfg.Types {
		types[i] = config.TypeMapping{Keyword: strings.ToLower(m.Keyword), Name: m.Name}
	}

	pats := make([]*regexp.Regexp, 0, len(cfg.CasePatterns))
	for _, p := range cfg.CasePatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile case pattern %q: %w", p, err)
		}
		pats = append(pats, re)
	}

	defaultType := cfg.DefaultType
	if defaultType == "" {
		defaultType = "legal_document"
	}
	return &Labeler{types: types, casePats: pats, defaultType: defaultType}, nil
}

// FileStem returns the filename component for a document title:
// the first matching type name from the keyword table, plus a case
// identifier when one is found in the title. Untitled segments become
// "document".
func (l *Labeler) FileStem(title string) string {
	if title == "" || title == "Unknown" {
		return "document"
	}

	lower := strings.ToLower(title)

	docType := l.defaultType
	for _, m := range l.types {
		if strings.Contains(lower, m.Keyword) {
			docType = m.Name
			break
		}
	}

	for _, re := range l.casePats {
		if m := re.FindString(lower); m != "" {
			id := sanitize(strings.ReplaceAll(m, " ", "_"))
			if id != "" {
				return docType + "_" + id
			}
			return docType
		}
	}
	return docType
}

// sanitize strips characters that are unsafe in filenames, keeping
// lowercase alphanumerics, dots, underscores and hyphens.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
