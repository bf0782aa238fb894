package pdfio

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Copier extracts page ranges from a PDF into new files.
type Copier struct{}

// CopyRange writes pages [startPage, endPage] of src to dst. The range
// is 0-based and inclusive; dst is overwritten if it exists. The output
// is re-counted after writing, so a selection that silently clamped to
// the document's bounds surfaces as an error instead of a short file.
func (Copier) CopyRange(src, dst string, startPage, endPage int) error {
	if startPage < 0 || endPage < startPage {
		return fmt.Errorf("invalid page range [%d, %d]", startPage, endPage)
	}

	// pdfcpu page selections are 1-based.
	sel := []string{fmt.Sprintf("%d-%d", startPage+1, endPage+1)}
	if err := api.TrimFile(src, dst, sel, nil); err != nil {
		return fmt.Errorf("failed to copy pages %d-%d from %s: %w", startPage+1, endPage+1, src, err)
	}

	want := endPage - startPage + 1
	got, err := PageCount(dst)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", dst, err)
	}
	if got != want {
		return fmt.Errorf("wrote %d pages to %s, want %d", got, dst, want)
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path without
// parsing page content.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	count, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return count, nil
}
