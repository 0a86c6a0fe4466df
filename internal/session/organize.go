package session

import (
	"context"
	"errors"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/mover"
)

// BeginVerify moves from Review to the optional confirmation step. Flows
// that do not confirm call Organize straight from Review.
func (s *Session) BeginVerify() error {
	if s.step != StepReview {
		return &StepError{Op: "verify", Step: s.step}
	}
	s.step = StepVerifying
	return nil
}

// CancelVerify returns from the confirmation step to Review.
func (s *Session) CancelVerify() {
	if s.step == StepVerifying {
		s.step = StepReview
	}
}

// Organize moves every selected, movable file into a category subfolder of
// the scan root and records the undo log, replacing any previous one. On
// success the session completes; on cancellation it returns to the review
// state with the partial undo log kept, so finished moves stay reversible.
func (s *Session) Organize(ctx context.Context) (*mover.Result, error) {
	return s.move(ctx, mover.ModeOrganize, mover.CategoryDest(s.root))
}

// Export moves the selected files into category subfolders of an external
// destination. No undo log is recorded. A destination that cannot be
// opened aborts before any file is touched, leaving the session in its
// review state.
func (s *Session) Export(ctx context.Context, dest string) (*mover.Result, error) {
	if err := s.checkDestination(dest); err != nil {
		return nil, err
	}
	return s.move(ctx, mover.ModeExport, mover.ExportDest(dest))
}

// Backup copies the selected files into category subfolders of an external
// destination without deleting anything. The session returns to Review
// when the pass finishes.
func (s *Session) Backup(ctx context.Context, dest string) (*mover.Result, error) {
	if err := s.checkDestination(dest); err != nil {
		return nil, err
	}
	return s.move(ctx, mover.ModeBackup, mover.ExportDest(dest))
}

// checkDestination validates the external destination before any file is
// touched. A failure here is a top-level abort: the session stays in its
// review state and no partial undo log is created.
func (s *Session) checkDestination(dest string) error {
	if dest == "" {
		return &AccessError{Path: dest, Err: errors.New("no destination folder chosen")}
	}
	if err := s.fs.MkdirAll(dest, 0755); err != nil {
		return &AccessError{Path: dest, Err: err}
	}
	return nil
}

func (s *Session) move(ctx context.Context, mode mover.Mode, destFor mover.DestFunc) (*mover.Result, error) {
	if s.step != StepReview && s.step != StepVerifying {
		return nil, &StepError{Op: "move files", Step: s.step}
	}
	prior := s.step
	selected := s.Selected()

	s.step = StepExporting
	s.state = ProcessingState{Organizing: true, Activity: "Organizing files"}

	executor := mover.New(s.fs, s.root, mode,
		mover.WithDryRun(s.dryRun),
		mover.WithProgressReporter(s.progressReporter),
		mover.WithLogger(s.logger))

	undoLog, result, err := executor.Execute(ctx, selected, destFor)
	if err != nil {
		// Cancellation mid-pass: keep what was moved reversible and fall
		// back to the pre-operation step.
		if mode == mover.ModeOrganize && len(undoLog) > 0 {
			s.undoLog = undoLog
		}
		s.step = prior
		s.state = ProcessingState{}
		if errors.Is(err, context.Canceled) {
			return result, ErrCancelled
		}
		return result, err
	}

	if mode == mover.ModeOrganize && !s.dryRun {
		s.undoLog = undoLog
	}
	if !s.dryRun && mode != mover.ModeBackup {
		s.dropMoved(result)
	}

	s.state = ProcessingState{Progress: 100}
	if mode == mover.ModeBackup {
		s.step = prior
	} else {
		s.step = StepCompleted
	}
	s.logger.Info("move pass complete",
		"mode", int(mode), "moved", len(result.Moved), "skipped", len(result.Skipped),
		"errors", len(result.Errors))
	return result, nil
}

// dropMoved invalidates the records of files that left the tree.
func (s *Session) dropMoved(result *mover.Result) {
	moved := make(map[string]bool, len(result.Moved))
	for _, path := range result.Moved {
		moved[path] = true
	}
	remaining := make([]*catalog.FileRecord, 0, len(s.records))
	for _, record := range s.records {
		if moved[record.Path] {
			delete(s.selected, record.Path)
			continue
		}
		remaining = append(remaining, record)
	}
	s.records = remaining
}

// Undo reverses the most recent organize pass and returns the session to
// Idle, clearing the undo log and the file list. Undo is single-shot: a
// second call without an intervening organize is a no-op, and with no
// log to replay an active scan is left untouched.
func (s *Session) Undo(ctx context.Context) (*mover.Result, error) {
	if len(s.undoLog) == 0 {
		if s.step == StepCompleted {
			s.Reset()
		}
		return &mover.Result{SkippedReason: map[string]string{}}, nil
	}

	s.state = ProcessingState{Organizing: true, Activity: "Restoring files"}

	executor := mover.New(s.fs, s.root, mover.ModeOrganize,
		mover.WithDryRun(s.dryRun),
		mover.WithProgressReporter(s.progressReporter),
		mover.WithLogger(s.logger))

	result, err := executor.Undo(ctx, s.undoLog)

	// The log is cleared after a pass whether it fully succeeded or not.
	s.Reset()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return result, ErrCancelled
		}
		return result, err
	}
	return result, nil
}
