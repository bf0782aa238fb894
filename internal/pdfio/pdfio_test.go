package pdfio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Open() of missing file succeeded, want error")
	}
}

func TestOpen_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-pdf.pdf")
	if err := os.WriteFile(path, []byte("plain text, no PDF header"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open() of a non-PDF file succeeded, want error")
	}
}

func TestCopier_InvalidRange(t *testing.T) {
	c := Copier{}
	tests := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 3},
		{"inverted range", 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CopyRange("in.pdf", "out.pdf", tt.start, tt.end)
			if err == nil {
				t.Errorf("CopyRange(%d, %d) succeeded, want error", tt.start, tt.end)
			}
		})
	}
}

func TestPageCount_MissingFile(t *testing.T) {
	if _, err := PageCount(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("PageCount() of missing file succeeded, want error")
	}
}
