package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/discoverytools/docsplit/internal/config"
	"github.com/discoverytools/docsplit/internal/report"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := New(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("%PDF-fake"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestRunner_Discover(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "B.PDF"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "a_split_affidavit_001.pdf"))
	touch(t, filepath.Join(dir, "sub", "nested.pdf"))

	r := newTestRunner(t)

	t.Run("flat", func(t *testing.T) {
		paths, skipped, err := r.discover(dir, false)
		if err != nil {
			t.Fatalf("discover() error = %v", err)
		}
		want := []string{filepath.Join(dir, "B.PDF"), filepath.Join(dir, "a.pdf")}
		sort.Strings(want)
		if len(paths) != len(want) {
			t.Fatalf("discover() = %v, want %v", paths, want)
		}
		for i := range want {
			if paths[i] != want[i] {
				t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
			}
		}
		if skipped != 1 {
			t.Errorf("skipped = %d, want 1", skipped)
		}
	})

	t.Run("recursive", func(t *testing.T) {
		paths, _, err := r.discover(dir, true)
		if err != nil {
			t.Fatalf("discover() error = %v", err)
		}
		found := false
		for _, p := range paths {
			if p == filepath.Join(dir, "sub", "nested.pdf") {
				found = true
			}
		}
		if !found {
			t.Errorf("recursive discover() missed nested.pdf: %v", paths)
		}
		if len(paths) != 3 {
			t.Errorf("discover() found %d files, want 3: %v", len(paths), paths)
		}
	})
}

func TestRunner_ProcessDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "bundle1.pdf"))
	touch(t, filepath.Join(dir, "bundle2.pdf"))
	touch(t, filepath.Join(dir, "single.pdf"))
	touch(t, filepath.Join(dir, "broken.pdf"))
	touch(t, filepath.Join(dir, "old_split_affidavit_001.pdf"))

	cfg := config.DefaultConfig()
	cfg.Batch.Workers = 3
	r, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var mu sync.Mutex
	prefixes := make(map[string]string)
	r.processFile = func(_ context.Context, path string, opts FileOptions) (*report.Report, error) {
		mu.Lock()
		prefixes[filepath.Base(path)] = opts.FilePrefix
		mu.Unlock()

		switch filepath.Base(path) {
		case "broken.pdf":
			return nil, fmt.Errorf("unreadable")
		case "single.pdf":
			return &report.Report{Source: path, TotalPages: 4}, nil
		default:
			return &report.Report{
				Source:     path,
				TotalPages: 10,
				Split:      true,
				Documents:  []report.Document{{File: "a.pdf"}, {File: "b.pdf"}},
			}, nil
		}
	}

	stats, err := r.ProcessDir(context.Background(), dir, DirOptions{})
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}

	if stats.Examined != 4 {
		t.Errorf("Examined = %d, want 4", stats.Examined)
	}
	if stats.Split != 2 {
		t.Errorf("Split = %d, want 2", stats.Split)
	}
	if stats.SingleDocument != 1 {
		t.Errorf("SingleDocument = %d, want 1", stats.SingleDocument)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if stats.FilesCreated != 4 {
		t.Errorf("FilesCreated = %d, want 4", stats.FilesCreated)
	}

	if got := prefixes["bundle1.pdf"]; got != "bundle1_split_" {
		t.Errorf("prefix for bundle1.pdf = %q, want %q", got, "bundle1_split_")
	}
}

func TestRunner_ProcessDir_DryRunCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "bundle.pdf"))

	r := newTestRunner(t)
	r.processFile = func(_ context.Context, path string, opts FileOptions) (*report.Report, error) {
		if !opts.DryRun {
			t.Error("DryRun not propagated to file options")
		}
		return &report.Report{
			Source:    path,
			Split:     true,
			DryRun:    true,
			Documents: []report.Document{{File: "a.pdf"}},
		}, nil
	}

	stats, err := r.ProcessDir(context.Background(), dir, DirOptions{
		FileOptions: FileOptions{DryRun: true},
	})
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if stats.FilesCreated != 0 {
		t.Errorf("FilesCreated = %d, want 0 in dry run", stats.FilesCreated)
	}
	if stats.Split != 1 {
		t.Errorf("Split = %d, want 1", stats.Split)
	}
}

func TestRunner_ProcessDir_Empty(t *testing.T) {
	r := newTestRunner(t)
	stats, err := r.ProcessDir(context.Background(), t.TempDir(), DirOptions{})
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if stats.Examined != 0 || stats.Errors != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}

func TestRunner_ProcessFile_Validation(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		if _, err := r.ProcessFile(ctx, filepath.Join(t.TempDir(), "missing.pdf"), FileOptions{}); err == nil {
			t.Error("ProcessFile() succeeded, want error")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := r.ProcessFile(ctx, t.TempDir(), FileOptions{}); err == nil {
			t.Error("ProcessFile() on a directory succeeded, want error")
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := r.ProcessFile(ctx, path, FileOptions{}); err == nil {
			t.Error("ProcessFile() on a non-PDF succeeded, want error")
		}
	})
}
