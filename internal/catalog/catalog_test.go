package catalog

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "report.pdf", "pdf"},
		{"uppercase", "PHOTO.JPG", "jpg"},
		{"multiple dots", "archive.tar.gz", "gz"},
		{"no extension", "README", ""},
		{"trailing dot", "weird.", ""},
		{"hidden file", ".gitignore", "gitignore"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtensionOf(tt.input); got != tt.expected {
				t.Errorf("ExtensionOf(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		ok       bool
	}{
		{"Documents", CategoryDocuments, true},
		{"documents", CategoryDocuments, true},
		{"  IMAGES  ", CategoryImages, true},
		{"junk", CategoryJunk, true},
		{"Unknown", CategoryUnknown, true},
		{"Spreadsheets", CategoryUnknown, false},
		{"", CategoryUnknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseCategory(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)",
				tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestCategoryMovable(t *testing.T) {
	for _, category := range Categories {
		movable := category.Movable()
		expected := category != CategoryUnknown && category != CategoryJunk
		if movable != expected {
			t.Errorf("%s.Movable() = %v, want %v", category, movable, expected)
		}
	}

	if Category("Nope").Movable() {
		t.Error("invalid category must not be movable")
	}
}

func TestNewFileRecord(t *testing.T) {
	mod := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	record := NewFileRecord("docs/notes/Report.PDF", 2048, mod)

	if record.Name != "Report.PDF" {
		t.Errorf("Name = %q, want Report.PDF", record.Name)
	}
	if record.Path != "docs/notes/Report.PDF" {
		t.Errorf("Path = %q", record.Path)
	}
	if record.Extension != "pdf" {
		t.Errorf("Extension = %q, want pdf", record.Extension)
	}
	if record.Category != CategoryUnknown {
		t.Errorf("Category = %q, want Unknown", record.Category)
	}
	if record.Size != 2048 || !record.LastModified.Equal(mod) {
		t.Error("size or modification time not preserved")
	}
}

func TestGroupID(t *testing.T) {
	if got := GroupID(100); got != "group-100" {
		t.Errorf("GroupID(100) = %q, want group-100", got)
	}
	if GroupID(100) != GroupID(100) {
		t.Error("group id must be stable for the same size")
	}
}

func TestUndoLogRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	records := []UndoRecord{
		{FileName: "a.pdf", OriginalPath: "docs/a.pdf", Category: CategoryDocuments},
		{FileName: "song.mp3", OriginalPath: "song.mp3", Category: CategoryAudio},
	}

	if err := WriteUndoLog(fs, "/scan/.undo.json", records); err != nil {
		t.Fatalf("WriteUndoLog: %v", err)
	}

	loaded, err := ReadUndoLog(fs, "/scan/.undo.json")
	if err != nil {
		t.Fatalf("ReadUndoLog: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d records, want 2", len(loaded))
	}
	if loaded[0] != records[0] || loaded[1] != records[1] {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestReadUndoLogMissing(t *testing.T) {
	fs := afero.NewMemMapFs()

	loaded, err := ReadUndoLog(fs, "/scan/.undo.json")
	if err != nil {
		t.Fatalf("missing log must not error, got %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("missing log must be empty, got %d records", len(loaded))
	}
}

func TestReadUndoLogBadVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/scan/.undo.json", []byte(`{"version":99,"records":[]}`), 0644)

	if _, err := ReadUndoLog(fs, "/scan/.undo.json"); err == nil {
		t.Fatal("expected version error")
	}
}
