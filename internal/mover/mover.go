// Package mover performs the transactional move of selected files and its
// reversal. Every relocation is copy-then-delete: the destination copy is
// fully written and closed before the source entry is removed, so no file
// is ever lost to a half-finished move.
package mover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/progress"
)

// Mode selects what a pass does with the source entry after copying.
type Mode int

const (
	// ModeOrganize moves files into category subfolders and records an
	// undo log.
	ModeOrganize Mode = iota
	// ModeExport moves files to an external folder; no undo log.
	ModeExport
	// ModeBackup copies files and never deletes the source.
	ModeBackup
)

// DestFunc resolves the destination directory for one record. Returning an
// error fails that file only, not the batch.
type DestFunc func(*catalog.FileRecord) (string, error)

// Result represents the outcome of a move or undo pass
type Result struct {
	Moved         []string
	MovedSize     int64
	Skipped       []string
	SkippedReason map[string]string
	Errors        []*MoveError
	DryRun        bool
}

// Executor performs sequential, failure-isolated file moves
type Executor struct {
	fs               afero.Fs
	root             string
	mode             Mode
	dryRun           bool
	progressReporter *progress.Reporter
	logger           *slog.Logger
}

// Option customizes the executor.
type Option func(*Executor)

// WithDryRun makes the executor simulate the pass without touching files.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// WithProgressReporter sets a custom progress reporter.
func WithProgressReporter(pr *progress.Reporter) Option {
	return func(e *Executor) {
		if pr != nil {
			e.progressReporter = pr
		}
	}
}

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Executor rooted at the scanned directory. Record paths
// are resolved relative to root.
func New(fs afero.Fs, root string, mode Mode, opts ...Option) *Executor {
	e := &Executor{
		fs:               fs,
		root:             root,
		mode:             mode,
		progressReporter: progress.NewReporter(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetProgressReporter returns the executor's progress reporter
func (e *Executor) GetProgressReporter() *progress.Reporter {
	return e.progressReporter
}

// Execute relocates the records strictly sequentially in input order. A
// failure on one file is recorded and the loop continues; progress is
// updated after every file, success or failure. Records whose category is
// Unknown or Junk are skipped in organize mode, even when selected. The
// returned undo log (organize mode only) holds one record per file
// actually moved; on cancellation the partial log is still returned so
// completed moves stay reversible.
func (e *Executor) Execute(ctx context.Context, records []*catalog.FileRecord, destFor DestFunc) ([]catalog.UndoRecord, *Result, error) {
	result := &Result{
		Moved:         []string{},
		Skipped:       []string{},
		SkippedReason: make(map[string]string),
		Errors:        []*MoveError{},
		DryRun:        e.dryRun,
	}
	var undoLog []catalog.UndoRecord

	total := len(records)
	startTime := time.Now()
	e.reportMove(progress.PhaseMoving, "", 0, total, 0, startTime, nil)

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return undoLog, result, err
		}

		if e.mode == ModeOrganize && !record.Category.Movable() {
			result.Skipped = append(result.Skipped, record.Path)
			result.SkippedReason[record.Path] = fmt.Sprintf("%s files are never moved", record.Category)
			e.reportMove(progress.PhaseMoving, record.Path, i+1, total, result.MovedSize, startTime, nil)
			continue
		}

		if moveErr := e.moveOne(record, destFor, result); moveErr != nil {
			result.Errors = append(result.Errors, moveErr)
			result.Skipped = append(result.Skipped, record.Path)
			result.SkippedReason[record.Path] = moveErr.UserMessage()
			e.logger.Warn("file move failed", "path", record.Path, "reason", moveErr.Reason.String())
		} else if e.mode == ModeOrganize && !e.dryRun {
			undoLog = append(undoLog, catalog.UndoRecord{
				FileName:     record.Name,
				OriginalPath: record.Path,
				Category:     record.Category,
			})
		}

		// Progress counts every processed file, failed ones included.
		e.reportMove(progress.PhaseMoving, record.Path, i+1, total, result.MovedSize, startTime, nil)
	}

	e.reportMove(progress.PhaseComplete, "", total, total, result.MovedSize, startTime, nil)
	return undoLog, result, nil
}

// moveOne applies the copy-then-delete sequence for a single record. The
// source entry is only removed after the destination write returned
// without error, and never in backup mode.
func (e *Executor) moveOne(record *catalog.FileRecord, destFor DestFunc, result *Result) *MoveError {
	destDir, err := destFor(record)
	if err != nil {
		return CategorizeError(record.Path, err)
	}
	destPath := filepath.Join(destDir, record.Name)
	srcPath := filepath.Join(e.root, filepath.FromSlash(record.Path))

	if e.dryRun {
		result.Moved = append(result.Moved, record.Path)
		result.MovedSize += record.Size
		return nil
	}

	if exists, err := afero.Exists(e.fs, destPath); err != nil {
		return CategorizeError(record.Path, err)
	} else if exists {
		return &MoveError{Path: record.Path, Reason: ErrorDestinationExists}
	}

	if err := e.fs.MkdirAll(destDir, 0755); err != nil {
		return CategorizeError(record.Path, err)
	}

	content, err := afero.ReadFile(e.fs, srcPath)
	if err != nil {
		return CategorizeError(record.Path, err)
	}

	// Whole-content write; the file is closed before the source delete.
	if err := afero.WriteFile(e.fs, destPath, content, 0644); err != nil {
		return CategorizeError(record.Path, err)
	}

	if e.mode != ModeBackup {
		if err := e.fs.Remove(srcPath); err != nil {
			return CategorizeError(record.Path, err)
		}
	}

	result.Moved = append(result.Moved, record.Path)
	result.MovedSize += record.Size
	return nil
}

// CategoryDest returns the organize-mode destination resolver: a subfolder
// of root named after the record's category.
func CategoryDest(root string) DestFunc {
	return func(record *catalog.FileRecord) (string, error) {
		return filepath.Join(root, string(record.Category)), nil
	}
}

// ExportDest returns the export/backup destination resolver: category
// subfolders under an external directory.
func ExportDest(dest string) DestFunc {
	return func(record *catalog.FileRecord) (string, error) {
		return filepath.Join(dest, string(record.Category)), nil
	}
}

// reportMove reports move progress to listeners
func (e *Executor) reportMove(phase progress.Phase, currentFile string, done, total int, movedSize int64, startTime time.Time, err error) {
	if e.progressReporter == nil {
		return
	}
	e.progressReporter.UpdateMove(&progress.MoveProgress{
		Phase:       phase,
		CurrentFile: currentFile,
		Done:        done,
		Total:       total,
		Percent:     progress.Percent(done, total),
		MovedSize:   movedSize,
		StartTime:   startTime,
		Error:       err,
	})
}

// parentOf returns the slash-relative parent directory of a record path,
// or "" for a top-level file.
func parentOf(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
