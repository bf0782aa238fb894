// Package pdfio provides page-level text extraction and page-range
// copying for PDF files.
package pdfio

import (
	"context"
	"fmt"
	"os"

	pdflib "github.com/ledongthuc/pdf"
)

// Reader extracts per-page plain text from one PDF file. Pages are
// 0-based at this boundary; the underlying library counts from 1.
type Reader struct {
	f      *os.File
	reader *pdflib.Reader
	pages  int
}

// Open opens the PDF at path for text extraction. The caller owns the
// returned reader and must Close it.
func Open(path string) (*Reader, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	return &Reader{f: f, reader: r, pages: r.NumPage()}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() int {
	return r.pages
}

// PageText returns the plain text of a 0-based page. A malformed page
// yields an error, not a failure of the whole document.
func (r *Reader) PageText(ctx context.Context, page int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page < 0 || page >= r.pages {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page+1, r.pages)
	}

	// The parser panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("failed to parse page %d: %v", page+1, rec)
		}
	}()

	p := r.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d has no content", page+1)
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", page+1, err)
	}
	return text, nil
}
