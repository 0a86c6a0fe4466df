package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/scanner"
	"github.com/fenilsonani/declutter/internal/testutil"
)

func sampleSnapshot() *Snapshot {
	a := testutil.Record("a.pdf", 100, catalog.CategoryDocuments)
	b := testutil.Record("copies/b.pdf", 100, catalog.CategoryDocuments)
	c := testutil.Record("song.mp3", 250, catalog.CategoryAudio)
	records := []*catalog.FileRecord{a, b, c}
	groups := scanner.GroupBySize(records)
	return &Snapshot{Root: "/scan", Files: records, Groups: groups}
}

func TestReportSummary(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, FormatSummary).Report(sampleSnapshot()); err != nil {
		t.Fatalf("Report: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Root: /scan",
		"Total Files: 3",
		"Documents: 2 files",
		"Audio: 1 files",
		"Duplicate Groups: 1",
		"group-100",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestReportTable(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, FormatTable).Report(sampleSnapshot()); err != nil {
		t.Fatalf("Report: %v", err)
	}

	text := out.String()
	for _, want := range []string{"a.pdf", "copies/b.pdf", "song.mp3", "Documents"} {
		if !strings.Contains(text, want) {
			t.Errorf("table missing %q:\n%s", want, text)
		}
	}

	// Footer cells are rendered upper-cased by the table style.
	if !strings.Contains(strings.ToUpper(text), "1 GROUPS") {
		t.Errorf("table missing group count footer:\n%s", text)
	}
}

func TestReportJSON(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, FormatJSON).Report(sampleSnapshot()); err != nil {
		t.Fatalf("Report: %v", err)
	}

	var parsed struct {
		Timestamp string                    `json:"timestamp"`
		Root      string                    `json:"root"`
		Files     []*catalog.FileRecord     `json:"files"`
		Groups    []*catalog.DuplicateGroup `json:"duplicate_groups"`
	}
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if parsed.Timestamp == "" || parsed.Root != "/scan" {
		t.Errorf("parsed = %+v", parsed)
	}
	if len(parsed.Files) != 3 || len(parsed.Groups) != 1 {
		t.Errorf("files = %d, groups = %d", len(parsed.Files), len(parsed.Groups))
	}
}

func TestReportYAML(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, FormatYAML).Report(sampleSnapshot()); err != nil {
		t.Fatalf("Report: %v", err)
	}

	var parsed struct {
		Timestamp string `yaml:"timestamp"`
		Scan      struct {
			Root  string `yaml:"root"`
			Files []struct {
				Path string `yaml:"path"`
			} `yaml:"files"`
		} `yaml:"scan"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if parsed.Scan.Root != "/scan" || len(parsed.Scan.Files) != 3 {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestReportUnsupportedFormat(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, OutputFormat("xml")).Report(sampleSnapshot()); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
