package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"
)

// UndoRecord captures one completed move so it can be reversed. FileName is
// the leaf name inside the category folder, OriginalPath the slash-relative
// location the file came from.
type UndoRecord struct {
	FileName     string   `json:"file_name"`
	OriginalPath string   `json:"original_path"`
	Category     Category `json:"category"`
}

// UndoLogVersion is the on-disk schema version for persisted undo logs.
const UndoLogVersion = 1

// undoLogDocument is the persisted shape of an undo log. Only the most
// recent organize pass is kept; writing a new log replaces the old one.
type undoLogDocument struct {
	Version   int          `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	Records   []UndoRecord `json:"records"`
}

// WriteUndoLog persists an undo log as JSON, replacing any previous log.
func WriteUndoLog(fs afero.Fs, path string, records []UndoRecord) error {
	doc := undoLogDocument{
		Version:   UndoLogVersion,
		CreatedAt: time.Now(),
		Records:   records,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode undo log: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write undo log: %w", err)
	}
	return nil
}

// ReadUndoLog loads a persisted undo log. A missing file yields an empty
// log, not an error.
func ReadUndoLog(fs afero.Fs, path string) ([]UndoRecord, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check undo log: %w", err)
	}
	if !exists {
		return nil, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read undo log: %w", err)
	}
	var doc undoLogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse undo log: %w", err)
	}
	if doc.Version != UndoLogVersion {
		return nil, fmt.Errorf("unsupported undo log version: %d", doc.Version)
	}
	return doc.Records, nil
}
