package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/fenilsonani/declutter/internal/testutil"
)

// =============================================================================
// Walk behavior
// =============================================================================

func TestScanCollectsAllFiles(t *testing.T) {
	fixture := testutil.NewFixture(t)
	fixture.WriteTree(map[string]string{
		"a.pdf":             "aaa",
		"docs/b.txt":        "bb",
		"docs/deep/c.jpg":   "c",
		"music/track.mp3":   "mmmm",
		"music/live/d.flac": "ddddd",
	})

	s := New(fixture.FS, nil)
	records, err := s.Scan(testutil.Ctx(), fixture.Root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}

	byPath := make(map[string]bool)
	for _, record := range records {
		byPath[record.Path] = true
	}
	for _, want := range []string{"a.pdf", "docs/b.txt", "docs/deep/c.jpg", "music/track.mp3", "music/live/d.flac"} {
		if !byPath[want] {
			t.Errorf("missing record for %s", want)
		}
	}
}

func TestScanRelativeSlashPaths(t *testing.T) {
	fixture := testutil.NewFixture(t)
	fixture.WriteFile("nested/dir/file.txt", "x")

	s := New(fixture.FS, nil)
	records, err := s.Scan(testutil.Ctx(), fixture.Root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Path != "nested/dir/file.txt" {
		t.Errorf("Path = %q, want nested/dir/file.txt", records[0].Path)
	}
	if records[0].Name != "file.txt" {
		t.Errorf("Name = %q, want file.txt", records[0].Name)
	}
}

func TestScanRecordFields(t *testing.T) {
	fixture := testutil.NewFixture(t)
	fixture.WriteFileSized("photo.JPG", 512)

	s := New(fixture.FS, nil)
	records, err := s.Scan(testutil.Ctx(), fixture.Root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	record := records[0]
	if record.Size != 512 {
		t.Errorf("Size = %d, want 512", record.Size)
	}
	if record.Extension != "jpg" {
		t.Errorf("Extension = %q, want jpg", record.Extension)
	}
	if record.LastModified.IsZero() {
		t.Error("LastModified must be populated")
	}
}

func TestScanEmptyRoot(t *testing.T) {
	fixture := testutil.NewFixture(t)

	s := New(fixture.FS, nil)
	records, err := s.Scan(testutil.Ctx(), fixture.Root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}

// =============================================================================
// Exclusion
// =============================================================================

func TestScanExcludesByName(t *testing.T) {
	fixture := testutil.NewFixture(t)
	fixture.WriteTree(map[string]string{
		"keep.txt":                    "k",
		"node_modules/lib/index.js":   "j",
		"src/node_modules/pkg/x.js":   "j",
		"src/main.go":                 "g",
		"project/.git/objects/ab/cd":  "o",
		"project/readme.md":           "r",
		"node_modules.txt":            "not a directory, kept",
	})

	s := New(fixture.FS, []string{"node_modules", ".git"})
	records, err := s.Scan(testutil.Ctx(), fixture.Root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	paths := make(map[string]bool)
	for _, record := range records {
		paths[record.Path] = true
	}
	for _, want := range []string{"keep.txt", "src/main.go", "project/readme.md", "node_modules.txt"} {
		if !paths[want] {
			t.Errorf("missing record for %s", want)
		}
	}
	for path := range paths {
		switch path {
		case "keep.txt", "src/main.go", "project/readme.md", "node_modules.txt":
		default:
			t.Errorf("excluded path %s was scanned", path)
		}
	}
}

// =============================================================================
// Failure and cancellation
// =============================================================================

func TestScanMissingRootFails(t *testing.T) {
	fixture := testutil.NewFixture(t)

	s := New(fixture.FS, nil)
	records, err := s.Scan(testutil.Ctx(), "/does-not-exist")
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %T", err)
	}
	if records != nil {
		t.Error("failed scan must not return partial records")
	}
}

func TestScanCancelled(t *testing.T) {
	fixture := testutil.NewFixture(t)
	fixture.WriteFile("a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(fixture.FS, nil)
	records, err := s.Scan(ctx, fixture.Root)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if records != nil {
		t.Error("cancelled scan must not return records")
	}
}
