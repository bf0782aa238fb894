package scan

import (
	"testing"

	"github.com/discoverytools/docsplit/internal/config"
	"github.com/discoverytools/docsplit/internal/detect"
)

// filler pads page bodies past the no-OCR threshold without tripping
// any boundary cue.
const filler = "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut labore"

func newTestExtractor(t *testing.T) *detect.Extractor {
	t.Helper()
	ex, err := detect.NewExtractor(config.DefaultConfig().Detect)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	return ex
}

func runEngine(t *testing.T, pages []string) []Segment {
	t.Helper()
	ex := newTestExtractor(t)
	en := NewEngine(len(pages))
	for i, text := range pages {
		en.ProcessPage(i, ex.Extract(text))
	}
	return en.Finish()
}

func assertRanges(t *testing.T, segs []Segment, want [][2]int) {
	t.Helper()
	if len(segs) != len(want) {
		t.Fatalf("got %d segments %+v, want %d", len(segs), segs, len(want))
	}
	for i, w := range want {
		if segs[i].StartPage != w[0] || segs[i].EndPage != w[1] {
			t.Errorf("segment %d = [%d, %d], want [%d, %d]",
				i, segs[i].StartPage, segs[i].EndPage, w[0], w[1])
		}
	}
}

func assertCoverage(t *testing.T, segs []Segment, totalPages int) {
	t.Helper()
	if len(segs) == 0 {
		t.Fatal("no segments to check")
	}
	if segs[0].StartPage != 0 {
		t.Errorf("first segment starts at %d, want 0", segs[0].StartPage)
	}
	for i, s := range segs {
		if s.EndPage < s.StartPage {
			t.Errorf("segment %d has inverted range [%d, %d]", i, s.StartPage, s.EndPage)
		}
		if i > 0 && s.StartPage != segs[i-1].EndPage+1 {
			t.Errorf("segment %d starts at %d, want %d (contiguous with previous)",
				i, s.StartPage, segs[i-1].EndPage+1)
		}
	}
	if last := segs[len(segs)-1].EndPage; last != totalPages-1 {
		t.Errorf("last segment ends at %d, want %d", last, totalPages-1)
	}
}

func TestEngine_PagedMarkers(t *testing.T) {
	pages := []string{
		"PAGE 1 OF 3\n" + filler,
		"PAGE 2 OF 3\n" + filler,
		"PAGE 3 OF 3\n" + filler,
		"PAGE 1 OF 2\n" + filler,
		"PAGE 2 OF 2\n" + filler,
	}
	segs := runEngine(t, pages)
	assertRanges(t, segs, [][2]int{{0, 2}, {3, 4}})
	assertCoverage(t, segs, len(pages))

	// A close on the final page must not leave a stale trailing segment.
	if len(segs) != 2 {
		t.Errorf("got %d segments, want exactly 2", len(segs))
	}
}

func TestEngine_StandaloneReset(t *testing.T) {
	pages := []string{
		"Page 1\n" + filler,
		"Page 2\n" + filler,
		"Page 1\n" + filler,
		"Page 2\n" + filler,
		"Page 3\n" + filler,
	}
	segs := runEngine(t, pages)
	assertRanges(t, segs, [][2]int{{0, 1}, {2, 4}})
	assertCoverage(t, segs, len(pages))
}

func TestEngine_HeaderChange(t *testing.T) {
	pages := []string{
		"AFFIDAVIT OF PROBABLE CAUSE\n" + filler,
		filler + "\ncontinuation of the affidavit body\n" + filler,
		"SEARCH WARRANT\n" + filler,
		filler + "\nitems to be seized\n" + filler,
	}
	segs := runEngine(t, pages)
	assertRanges(t, segs, [][2]int{{0, 1}, {2, 3}})
	assertCoverage(t, segs, len(pages))

	if segs[0].Title != "AFFIDAVIT OF PROBABLE CAUSE" {
		t.Errorf("segment 0 title = %q, want %q", segs[0].Title, "AFFIDAVIT OF PROBABLE CAUSE")
	}
	if segs[1].Title != "SEARCH WARRANT" {
		t.Errorf("segment 1 title = %q, want %q", segs[1].Title, "SEARCH WARRANT")
	}
}

func TestEngine_NoCues(t *testing.T) {
	pages := []string{filler, filler, filler, filler}
	if segs := runEngine(t, pages); segs != nil {
		t.Errorf("got %+v, want nil for a document without boundaries", segs)
	}
}

func TestEngine_SingleDocument(t *testing.T) {
	t.Run("close on last page yields one segment and no split", func(t *testing.T) {
		pages := []string{
			"PAGE 1 OF 4\n" + filler,
			"PAGE 2 OF 4\n" + filler,
			"PAGE 3 OF 4\n" + filler,
			"PAGE 4 OF 4\n" + filler,
		}
		if segs := runEngine(t, pages); segs != nil {
			t.Errorf("got %+v, want nil for a single complete document", segs)
		}
	})

	t.Run("single page", func(t *testing.T) {
		if segs := runEngine(t, []string{"SEARCH WARRANT\n" + filler}); segs != nil {
			t.Errorf("got %+v, want nil", segs)
		}
	})
}

func TestEngine_PagedMarkerSuppressesOtherMethods(t *testing.T) {
	// Page 1 carries a header change that would fire method 3, but its
	// non-final paged marker decides the page first.
	pages := []string{
		"AFFIDAVIT OF PROBABLE CAUSE\n" + filler,
		"SEARCH WARRANT\nPAGE 2 OF 5\n" + filler,
		filler,
	}
	if segs := runEngine(t, pages); segs != nil {
		t.Errorf("got %+v, want nil (paged marker should suppress the header change)", segs)
	}
}

func TestEngine_StandaloneTrackerUpdatesWithoutBoundary(t *testing.T) {
	// The first standalone number never fires, but it must arm the
	// tracker so the reset on the next page does.
	pages := []string{
		"Page 2\n" + filler,
		"Page 1\n" + filler,
		filler,
	}
	segs := runEngine(t, pages)
	assertRanges(t, segs, [][2]int{{0, 0}, {1, 2}})
}

func TestEngine_MixedMethods(t *testing.T) {
	pages := []string{
		"PAGE 1 OF 2\n" + filler,
		"PAGE 2 OF 2\n" + filler,
		"AFFIDAVIT OF SERVICE\n" + filler,
		"Page 2\n" + filler,
		"Page 1\n" + filler,
		"NOTICE OF HEARING\n" + filler,
		"SUMMONS\n" + filler,
		filler,
	}
	segs := runEngine(t, pages)
	assertRanges(t, segs, [][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}})
	assertCoverage(t, segs, len(pages))

	wantTitles := []string{"Unknown", "AFFIDAVIT OF SERVICE", "NOTICE OF HEARING", "SUMMONS"}
	for i, want := range wantTitles {
		if segs[i].Title != want {
			t.Errorf("segment %d title = %q, want %q", i, segs[i].Title, want)
		}
	}
}

func TestEngine_NoOCROnBoundaryPage(t *testing.T) {
	// A no-OCR page that also fires a standalone reset is tallied in the
	// closing segment and seeds the new one.
	en := NewEngine(3)
	en.ProcessPage(0, detect.PageSignals{Standalone: 5})
	en.ProcessPage(1, detect.PageSignals{Standalone: 1, NoOCR: true})
	en.ProcessPage(2, detect.PageSignals{})

	segs := en.Finish()
	assertRanges(t, segs, [][2]int{{0, 0}, {1, 2}})
	if segs[0].NoOCRPages != 1 {
		t.Errorf("closing segment NoOCRPages = %d, want 1", segs[0].NoOCRPages)
	}
	if segs[1].NoOCRPages != 1 {
		t.Errorf("new segment NoOCRPages = %d, want 1", segs[1].NoOCRPages)
	}
	if !segs[0].HasNoOCRPages() {
		t.Error("HasNoOCRPages() = false, want true")
	}
}

func TestEngine_TitleSelection(t *testing.T) {
	t.Run("paged close prefers the closing page's title", func(t *testing.T) {
		en := NewEngine(2)
		en.ProcessPage(0, detect.PageSignals{
			Paged: &detect.PagedSignal{Current: 1, Total: 2},
			Title: "NOTICE OF APPEAL FILED",
		})
		en.ProcessPage(1, detect.PageSignals{
			Paged: &detect.PagedSignal{Current: 2, Total: 2},
			Title: "CERTIFICATE OF MAILING",
		})
		segs := en.Segments()
		if len(segs) != 1 || segs[0].Title != "CERTIFICATE OF MAILING" {
			t.Errorf("segments = %+v, want one titled %q", segs, "CERTIFICATE OF MAILING")
		}
	})

	t.Run("paged close falls back to the running title", func(t *testing.T) {
		en := NewEngine(2)
		en.ProcessPage(0, detect.PageSignals{
			Paged: &detect.PagedSignal{Current: 1, Total: 2},
			Title: "NOTICE OF APPEAL FILED",
		})
		en.ProcessPage(1, detect.PageSignals{
			Paged: &detect.PagedSignal{Current: 2, Total: 2},
		})
		segs := en.Segments()
		if len(segs) != 1 || segs[0].Title != "NOTICE OF APPEAL FILED" {
			t.Errorf("segments = %+v, want one titled %q", segs, "NOTICE OF APPEAL FILED")
		}
	})

	t.Run("untitled segments fall back to Unknown", func(t *testing.T) {
		en := NewEngine(2)
		en.ProcessPage(0, detect.PageSignals{Paged: &detect.PagedSignal{Current: 1, Total: 2}})
		en.ProcessPage(1, detect.PageSignals{Paged: &detect.PagedSignal{Current: 2, Total: 2}})
		segs := en.Segments()
		if len(segs) != 1 || segs[0].Title != "Unknown" {
			t.Errorf("segments = %+v, want one titled %q", segs, "Unknown")
		}
	})

	t.Run("standalone close uses the running title, boundary page titles the next", func(t *testing.T) {
		en := NewEngine(3)
		en.ProcessPage(0, detect.PageSignals{Header: "AFFIDAVIT", Title: "AFFIDAVIT OF JOHN DOE"})
		en.ProcessPage(1, detect.PageSignals{Standalone: 4})
		en.ProcessPage(2, detect.PageSignals{Standalone: 1, Title: "RETURN OF SERVICE FORM"})
		segs := en.Finish()
		assertRanges(t, segs, [][2]int{{0, 1}, {2, 2}})
		if segs[0].Title != "AFFIDAVIT OF JOHN DOE" {
			t.Errorf("closing segment title = %q, want %q", segs[0].Title, "AFFIDAVIT OF JOHN DOE")
		}
		if segs[1].Title != "RETURN OF SERVICE FORM" {
			t.Errorf("new segment title = %q, want %q", segs[1].Title, "RETURN OF SERVICE FORM")
		}
	})
}

func TestEngine_SnapshotRestore(t *testing.T) {
	pages := []string{
		"Page 1\n" + filler,
		"Page 2\n" + filler,
		"Page 3\n" + filler,
		"Page 1\n" + filler,
		"Page 2\n" + filler,
		"Page 1\n" + filler,
		"Page 2\n" + filler,
		"Page 3\n" + filler,
	}
	ex := newTestExtractor(t)

	full := NewEngine(len(pages))
	for i, text := range pages {
		full.ProcessPage(i, ex.Extract(text))
	}
	want := full.Finish()
	assertRanges(t, want, [][2]int{{0, 2}, {3, 4}, {5, 7}})

	// Interrupt after page 4, then rebuild from the snapshot.
	first := NewEngine(len(pages))
	for i := 0; i <= 4; i++ {
		first.ProcessPage(i, ex.Extract(pages[i]))
	}
	resumed := ResumeEngine(len(pages), first.State(), first.Segments())
	for i := 5; i < len(pages); i++ {
		resumed.ProcessPage(i, ex.Extract(pages[i]))
	}
	got := resumed.Finish()

	if len(got) != len(want) {
		t.Fatalf("resumed run found %d segments, full run found %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d: resumed %+v, full %+v", i, got[i], want[i])
		}
	}
}
