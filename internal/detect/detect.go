// Package detect extracts boundary signals from OCR'd page text.
package detect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/discoverytools/docsplit/internal/config"
)

// PagedSignal is an explicit "page X of Y" cue.
type PagedSignal struct {
	Current int
	Total   int
}

// PageSignals carries everything extracted from one page's text. Zero values
// mean "not found": nil Paged, zero Standalone, empty Header and Title.
type PageSignals struct {
	Paged      *PagedSignal
	Standalone int
	Header     string
	Title      string
	NoOCR      bool
}

// Extractor turns page text into signals using configured pattern tables.
// Construct once per configuration; safe for concurrent use.
type Extractor struct {
	cfg         config.DetectCfg
	headerTypes []string // uppercased, priority order
	pageOf      []*regexp.Regexp
	standalone  []*regexp.Regexp
}

// NewExtractor compiles the configured pattern tables. Patterns compile
// case-insensitive and multi-line; page-of patterns need two capture groups,
// standalone patterns one.
func NewExtractor(cfg config.DetectCfg) (*Extractor, error) {
	e := &Extractor{cfg: cfg}

	for _, p := range cfg.PageOfPatterns {
		re, err := regexp.Compile("(?im)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid page-of pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 2 {
			return nil, fmt.Errorf("page-of pattern %q needs two capture groups", p)
		}
		e.pageOf = append(e.pageOf, re)
	}

	for _, p := range cfg.StandalonePatterns {
		re, err := regexp.Compile("(?im)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid standalone pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("standalone pattern %q needs a capture group", p)
		}
		e.standalone = append(e.standalone, re)
	}

	e.headerTypes = make([]string, len(cfg.HeaderTypes))
	for i, kw := range cfg.HeaderTypes {
		e.headerTypes[i] = strings.ToUpper(kw)
	}

	return e, nil
}

// Extract runs all extractors over one page's text.
func (e *Extractor) Extract(text string) PageSignals {
	return PageSignals{
		Paged:      e.pagedSignal(text),
		Standalone: e.standalonePage(text),
		Header:     e.headerType(text),
		Title:      e.titleLine(text),
		NoOCR:      e.noOCR(text),
	}
}

// pagedSignal finds an explicit "page X of Y" cue. The first matching rule
// is final; a match with a zero value is OCR garbage and yields no signal.
func (e *Extractor) pagedSignal(text string) *PagedSignal {
	search := headTail(text, e.cfg.PageOfWindow, e.cfg.TailWindow)
	for _, re := range e.pageOf {
		m := re.FindStringSubmatch(search)
		if m == nil {
			continue
		}
		cur, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		if cur > 0 && total > 0 {
			return &PagedSignal{Current: cur, Total: total}
		}
		return nil
	}
	return nil
}

// standalonePage finds a bare page counter. A rule whose number falls
// outside [1, max] is skipped and later rules still get a chance.
func (e *Extractor) standalonePage(text string) int {
	search := headTail(text, e.cfg.StandaloneWindow, e.cfg.TailWindow)
	for _, re := range e.standalone {
		m := re.FindStringSubmatch(search)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= e.cfg.MaxStandalonePage {
			return n
		}
	}
	return 0
}

// headerType finds a document-type keyword in the header region, honoring
// table order so "SEARCH WARRANT" wins over "WARRANT".
func (e *Extractor) headerType(text string) string {
	header := strings.ToUpper(head(text, e.cfg.HeaderWindow))
	for _, kw := range e.headerTypes {
		if strings.Contains(header, kw) {
			return kw
		}
	}
	return ""
}

// titleLine finds a title candidate: a leading line of reasonable length
// containing a document-type keyword. Returned trimmed, original case.
func (e *Extractor) titleLine(text string) string {
	lines := strings.Split(head(text, e.cfg.TitleWindow), "\n")
	if len(lines) > e.cfg.TitleMaxLines {
		lines = lines[:e.cfg.TitleMaxLines]
	}
	for _, line := range lines {
		clean := strings.TrimSpace(line)
		n := utf8.RuneCountInString(clean)
		if n < e.cfg.MinTitleLength || n > e.cfg.MaxTitleLength {
			continue
		}
		upper := strings.ToUpper(clean)
		for _, kw := range e.headerTypes {
			if strings.Contains(upper, kw) {
				return clean
			}
		}
	}
	return ""
}

// noOCR reports whether the page's trimmed text falls below the minimum
// length for usable OCR output.
func (e *Extractor) noOCR(text string) bool {
	if text == "" {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) < e.cfg.MinTextLength
}

// headTail windows text to its first head and last tail characters, the
// regions where page-number cues live. Short pages pass through whole.
func headTail(text string, headN, tailN int) string {
	r := []rune(text)
	if len(r) <= headN+tailN {
		return text
	}
	return string(r[:headN]) + "\n" + string(r[len(r)-tailN:])
}

// head returns the first n characters of text.
func head(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
