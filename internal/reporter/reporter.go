// Package reporter renders scan results in several output formats.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// Snapshot is what a report covers: the discovered files and their
// unresolved duplicate groups.
type Snapshot struct {
	Root   string                    `json:"root" yaml:"root"`
	Files  []*catalog.FileRecord     `json:"files" yaml:"files"`
	Groups []*catalog.DuplicateGroup `json:"duplicate_groups" yaml:"duplicate_groups"`
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the snapshot in the reporter's format
func (r *Reporter) Report(snap *Snapshot) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(snap)
	case FormatJSON:
		return r.reportJSON(snap)
	case FormatYAML:
		return r.reportYAML(snap)
	case FormatSummary:
		return r.reportSummary(snap)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(snap *Snapshot) error {
	var totalSize int64
	byCategory := make(map[catalog.Category]int)
	sizeByCategory := make(map[catalog.Category]int64)
	for _, file := range snap.Files {
		totalSize += file.Size
		byCategory[file.Category]++
		sizeByCategory[file.Category] += file.Size
	}

	fmt.Fprintf(r.writer, "=== Scan Summary ===\n")
	fmt.Fprintf(r.writer, "Root: %s\n", snap.Root)
	fmt.Fprintf(r.writer, "Total Files: %d\n", len(snap.Files))
	fmt.Fprintf(r.writer, "Total Size: %s\n", utils.FormatBytes(totalSize))
	fmt.Fprintf(r.writer, "\nBreakdown by Category:\n")

	for _, category := range catalog.Categories {
		if byCategory[category] == 0 {
			continue
		}
		fmt.Fprintf(r.writer, "  %s: %d files, %s\n",
			category, byCategory[category], utils.FormatBytes(sizeByCategory[category]))
	}

	if len(snap.Groups) > 0 {
		fmt.Fprintf(r.writer, "\nDuplicate Groups: %d\n", len(snap.Groups))
		for _, group := range snap.Groups {
			fmt.Fprintf(r.writer, "  %s (%s): %d files\n",
				group.ID, utils.FormatBytes(group.Size), len(group.Files))
		}
	}

	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(snap *Snapshot) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.writer)
	t.AppendHeader(table.Row{"Path", "Size", "Category", "Modified", "Duplicate"})

	var totalSize int64
	for _, file := range snap.Files {
		duplicate := ""
		if file.IsDuplicate {
			duplicate = file.DuplicateGroupID
		}
		t.AppendRow(table.Row{
			file.Path,
			utils.FormatBytes(file.Size),
			file.Category,
			file.LastModified.Format("2006-01-02 15:04:05"),
			duplicate,
		})
		totalSize += file.Size
	}

	t.AppendFooter(table.Row{"Total", utils.FormatBytes(totalSize), "", "", fmt.Sprintf("%d groups", len(snap.Groups))})
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(snap *Snapshot) error {
	report := struct {
		Timestamp string `json:"timestamp"`
		*Snapshot
	}{
		Timestamp: time.Now().Format(time.RFC3339),
		Snapshot:  snap,
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(snap *Snapshot) error {
	report := struct {
		Timestamp string    `yaml:"timestamp"`
		Snapshot  *Snapshot `yaml:"scan"`
	}{
		Timestamp: time.Now().Format(time.RFC3339),
		Snapshot:  snap,
	}

	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(report)
}

// SaveToFile saves the report to a file
func SaveToFile(snap *Snapshot, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.Report(snap)
}
