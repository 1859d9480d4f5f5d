package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/confluence-export/pkg/types"
)

// testLedger opens a ledger in a temp directory and registers cleanup.
func testLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "export.db")
	l, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, dbPath
}

func sampleRecord(id, path string) types.ExportRecord {
	return types.ExportRecord{
		SpaceKey:   "DOCS",
		PageID:     id,
		Title:      "Page " + id,
		Path:       path,
		ChildCount: 2,
		ExportedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRecordAndPages(t *testing.T) {
	l, _ := testLedger(t)
	ctx := context.Background()

	recB := sampleRecord("200", "DOCS/Root/B-Page.md")
	recA := sampleRecord("100", "DOCS/home.md")
	if err := l.Record(ctx, recB); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := l.Record(ctx, recA); err != nil {
		t.Fatalf("Record: %v", err)
	}

	pages, err := l.Pages(ctx)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	// Ordered by space key, then path.
	if pages[0].PageID != "100" || pages[1].PageID != "200" {
		t.Errorf("unexpected order: %s, %s", pages[0].PageID, pages[1].PageID)
	}

	got := pages[0]
	if got.SpaceKey != recA.SpaceKey || got.Title != recA.Title || got.Path != recA.Path {
		t.Errorf("record fields did not round-trip: %+v", got)
	}
	if got.ChildCount != recA.ChildCount {
		t.Errorf("child count = %d, want %d", got.ChildCount, recA.ChildCount)
	}
	if !got.ExportedAt.Equal(recA.ExportedAt) {
		t.Errorf("exported at = %v, want %v", got.ExportedAt, recA.ExportedAt)
	}
}

func TestRecordUpsert(t *testing.T) {
	l, _ := testLedger(t)
	ctx := context.Background()

	rec := sampleRecord("100", "DOCS/Old-Title.md")
	if err := l.Record(ctx, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	rec.Title = "Renamed Page"
	rec.Path = "DOCS/Renamed-Page.md"
	rec.ExportedAt = rec.ExportedAt.Add(24 * time.Hour)
	if err := l.Record(ctx, rec); err != nil {
		t.Fatalf("Record (second): %v", err)
	}

	pages, err := l.Pages(ctx)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1 after upsert", len(pages))
	}
	if pages[0].Title != "Renamed Page" || pages[0].Path != "DOCS/Renamed-Page.md" {
		t.Errorf("upsert did not refresh the row: %+v", pages[0])
	}
}

func TestReopenKeepsRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "export.db")
	ctx := context.Background()

	l, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.Record(ctx, sampleRecord("100", "DOCS/home.md")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	pages, err := reopened.Pages(ctx)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 || pages[0].PageID != "100" {
		t.Errorf("rows not persisted across reopen: %+v", pages)
	}
}

func TestPagesEmpty(t *testing.T) {
	l, _ := testLedger(t)

	pages, err := l.Pages(context.Background())
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected empty ledger, got %d rows", len(pages))
	}
}
