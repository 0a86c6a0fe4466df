package mover

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/progress"
)

// Undo replays the undo log in its recorded order, restoring each file
// from its category folder to its original relative location. The same
// copy-then-delete invariant applies: the file is rewritten at its
// original path before the category copy is removed. Per-file failures
// are isolated; the caller clears the log after the pass regardless.
func (e *Executor) Undo(ctx context.Context, log []catalog.UndoRecord) (*Result, error) {
	result := &Result{
		Moved:         []string{},
		Skipped:       []string{},
		SkippedReason: make(map[string]string),
		Errors:        []*MoveError{},
		DryRun:        e.dryRun,
	}

	total := len(log)
	startTime := time.Now()
	e.reportUndo(progress.PhaseUndoing, "", 0, total, 0, startTime)

	for i, record := range log {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if moveErr := e.restoreOne(record, result); moveErr != nil {
			result.Errors = append(result.Errors, moveErr)
			result.Skipped = append(result.Skipped, record.OriginalPath)
			result.SkippedReason[record.OriginalPath] = moveErr.UserMessage()
			e.logger.Warn("file restore failed",
				"path", record.OriginalPath, "reason", moveErr.Reason.String())
		}

		e.reportUndo(progress.PhaseUndoing, record.OriginalPath, i+1, total, result.MovedSize, startTime)
	}

	e.reportUndo(progress.PhaseComplete, "", total, total, result.MovedSize, startTime)
	return result, nil
}

// restoreOne reverses one recorded move.
func (e *Executor) restoreOne(record catalog.UndoRecord, result *Result) *MoveError {
	srcPath := filepath.Join(e.root, string(record.Category), record.FileName)
	destPath := filepath.Join(e.root, filepath.FromSlash(record.OriginalPath))

	if e.dryRun {
		result.Moved = append(result.Moved, record.OriginalPath)
		return nil
	}

	content, err := afero.ReadFile(e.fs, srcPath)
	if err != nil {
		return CategorizeError(record.OriginalPath, err)
	}

	// Recreate the original parent chain; it may have been emptied or
	// removed since the organize pass.
	if parent := parentOf(record.OriginalPath); parent != "" {
		if err := e.fs.MkdirAll(filepath.Join(e.root, filepath.FromSlash(parent)), 0755); err != nil {
			return CategorizeError(record.OriginalPath, err)
		}
	}

	if err := afero.WriteFile(e.fs, destPath, content, 0644); err != nil {
		return CategorizeError(record.OriginalPath, err)
	}

	if err := e.fs.Remove(srcPath); err != nil {
		return CategorizeError(record.OriginalPath, err)
	}

	result.Moved = append(result.Moved, record.OriginalPath)
	result.MovedSize += int64(len(content))
	return nil
}

// reportUndo reports undo progress to listeners
func (e *Executor) reportUndo(phase progress.Phase, currentFile string, done, total int, movedSize int64, startTime time.Time) {
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
	})
}
