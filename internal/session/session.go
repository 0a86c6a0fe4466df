// Package session drives the scan → classify → move/undo lifecycle as an
// explicit step state machine. A session owns the records of the active
// scan; at most one operation runs against the root at a time, which the
// linear step structure enforces by construction.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/classifier"
	"github.com/fenilsonani/declutter/internal/mover"
	"github.com/fenilsonani/declutter/internal/progress"
	"github.com/fenilsonani/declutter/internal/scanner"
)

// Step is one externally visible lifecycle state.
type Step string

const (
	StepIdle       Step = "idle"
	StepScanning   Step = "scanning"
	StepDuplicates Step = "duplicates"
	StepReview     Step = "review"
	StepVerifying  Step = "verifying"
	StepExporting  Step = "exporting"
	StepCompleted  Step = "completed"
)

// ErrCancelled marks a user-driven cancellation. It is a distinguished
// non-error outcome: callers must not surface it as a failure.
var ErrCancelled = errors.New("operation cancelled")

// StepError reports an operation attempted from the wrong lifecycle state.
type StepError struct {
	Op   string
	Step Step
}

// Error implements the error interface
func (e *StepError) Error() string {
	return fmt.Sprintf("cannot %s while in the %s step", e.Op, e.Step)
}

// AccessError reports a root or destination folder that could not be
// opened. Cancellation is not an AccessError.
type AccessError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *AccessError) Unwrap() error {
	return e.Err
}

// UserMessage returns a short, actionable message
func (e *AccessError) UserMessage() string {
	if os.IsPermission(e.Err) {
		return fmt.Sprintf("Access to %s was blocked. Try a less-sensitive subfolder.", e.Path)
	}
	return fmt.Sprintf("Could not open %s.", e.Path)
}

// ProcessingState is the transient progress and error surface of the
// active operation. It is reset whenever a new operation starts.
type ProcessingState struct {
	Scanning    bool
	Organizing  bool
	Err         string
	Progress    int
	Activity    string
	CurrentFile string
}

// Session sequences scanning, duplicate resolution, classification,
// selection, and the transactional move.
type Session struct {
	fs               afero.Fs
	rules            []classifier.Rule
	excluded         []string
	resolver         *classifier.Resolver
	progressReporter *progress.Reporter
	logger           *slog.Logger
	dryRun           bool

	step     Step
	root     string
	records  []*catalog.FileRecord
	groups   []*catalog.DuplicateGroup
	selected map[string]bool
	undoLog  []catalog.UndoRecord
	state    ProcessingState
}

// Option customizes a session.
type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgressReporter shares one reporter across scanner and mover.
func WithProgressReporter(pr *progress.Reporter) Option {
	return func(s *Session) {
		if pr != nil {
			s.progressReporter = pr
		}
	}
}

// WithDryRun makes organize/export/backup passes simulate their moves.
func WithDryRun(dryRun bool) Option {
	return func(s *Session) {
		s.dryRun = dryRun
	}
}

// New creates an idle session. remote may be nil to classify with rules
// and the extension table only.
func New(fs afero.Fs, rules []classifier.Rule, excluded []string, remote classifier.NameClassifier, opts ...Option) *Session {
	s := &Session{
		fs:               fs,
		rules:            rules,
		excluded:         excluded,
		progressReporter: progress.NewReporter(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		step:             StepIdle,
		selected:         make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = classifier.NewResolver(rules, remote, classifier.WithLogger(s.logger))
	return s
}

// Step returns the current lifecycle step.
func (s *Session) Step() Step { return s.step }

// Root returns the root of the active scan.
func (s *Session) Root() string { return s.root }

// Records returns the records of the active scan.
func (s *Session) Records() []*catalog.FileRecord { return s.records }

// Groups returns the unresolved duplicate groups of the active scan.
func (s *Session) Groups() []*catalog.DuplicateGroup { return s.groups }

// State returns a copy of the transient processing state.
func (s *Session) State() ProcessingState { return s.state }

// UndoLog returns the undo records of the most recent organize pass.
func (s *Session) UndoLog() []catalog.UndoRecord { return s.undoLog }

// ProgressReporter returns the session's shared progress reporter.
func (s *Session) ProgressReporter() *progress.Reporter { return s.progressReporter }

// Scan walks root, classifies every discovered file, groups duplicates,
// and seeds the selection with all classified files. It moves the session
// to Duplicates when groups were found, otherwise to Review. Failure
// returns to Idle with an error message; cancellation returns to Idle
// silently.
func (s *Session) Scan(ctx context.Context, root string) error {
	if s.step != StepIdle {
		return &StepError{Op: "scan", Step: s.step}
	}

	s.step = StepScanning
	s.state = ProcessingState{Scanning: true, Activity: "Scanning files"}

	if _, err := s.fs.Stat(root); err != nil {
		s.step = StepIdle
		s.state = ProcessingState{}
		accessErr := &AccessError{Path: root, Err: err}
		s.state.Err = accessErr.UserMessage()
		return accessErr
	}

	scn := scanner.New(s.fs, s.excluded)
	scn.SetProgressReporter(s.progressReporter)
	records, err := scn.Scan(ctx, root)
	if err != nil {
		s.step = StepIdle
		if errors.Is(err, context.Canceled) {
			s.state = ProcessingState{}
			return ErrCancelled
		}
		s.state = ProcessingState{Err: "Failed to scan the selected folder."}
		s.logger.Error("scan failed", "root", root, "error", err)
		return err
	}

	s.state.Activity = "Categorizing files"
	if err := s.resolver.Resolve(ctx, records); err != nil {
		// Only cancellation escapes the resolver.
		s.step = StepIdle
		s.state = ProcessingState{}
		return ErrCancelled
	}

	s.root = root
	s.records = records
	s.groups = scanner.GroupBySize(records)

	// Seed the selection: every classified file is a candidate.
	s.selected = make(map[string]bool, len(records))
	for _, record := range records {
		if record.Category != catalog.CategoryUnknown {
			s.selected[record.Path] = true
		}
	}

	s.state = ProcessingState{Progress: 100}
	if len(s.groups) > 0 {
		s.step = StepDuplicates
	} else {
		s.step = StepReview
	}
	s.logger.Info("scan complete",
		"root", root, "files", len(records), "duplicate_groups", len(s.groups))
	return nil
}

// MarkKeep chooses the file to keep in a duplicate group; all other
// members are marked for deletion.
func (s *Session) MarkKeep(groupID, keepPath string) error {
	if s.step != StepDuplicates {
		return &StepError{Op: "resolve duplicates", Step: s.step}
	}
	for _, group := range s.groups {
		if group.ID == groupID {
			return scanner.MarkKeep(group, keepPath)
		}
	}
	return fmt.Errorf("no such duplicate group: %s", groupID)
}

// DeleteMarked removes every file marked for deletion and advances the
// session to Review. Per-file failures are isolated; a file that cannot be
// deleted stays in the record list.
func (s *Session) DeleteMarked(ctx context.Context) (*mover.Result, error) {
	if s.step != StepDuplicates {
		return nil, &StepError{Op: "delete duplicates", Step: s.step}
	}

	result := &mover.Result{
		Moved:         []string{},
		Skipped:       []string{},
		SkippedReason: make(map[string]string),
		Errors:        []*mover.MoveError{},
		DryRun:        s.dryRun,
	}

	remaining := make([]*catalog.FileRecord, 0, len(s.records))
	for i, record := range s.records {
		if err := ctx.Err(); err != nil {
			// Keep the unprocessed tail so only deleted files drop out.
			s.records = append(remaining, s.records[i:]...)
			return result, ErrCancelled
		}
		if !record.MarkedForDeletion {
			remaining = append(remaining, record)
			continue
		}
		if s.dryRun {
			result.Moved = append(result.Moved, record.Path)
			result.MovedSize += record.Size
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.root, filepath.FromSlash(record.Path))); err != nil {
			moveErr := mover.CategorizeError(record.Path, err)
			result.Errors = append(result.Errors, moveErr)
			result.SkippedReason[record.Path] = moveErr.UserMessage()
			remaining = append(remaining, record)
			continue
		}
		result.Moved = append(result.Moved, record.Path)
		result.MovedSize += record.Size
		delete(s.selected, record.Path)
	}

	s.records = remaining
	s.groups = pruneGroups(s.groups)
	s.step = StepReview
	return result, nil
}

// pruneGroups drops groups reduced to one or zero members and rebuilds
// each survivor's member list from what is still on disk.
func pruneGroups(groups []*catalog.DuplicateGroup) []*catalog.DuplicateGroup {
	pruned := make([]*catalog.DuplicateGroup, 0, len(groups))
	for _, group := range groups {
		members := make([]*catalog.FileRecord, 0, len(group.Files))
		for _, member := range group.Files {
			if !member.MarkedForDeletion {
				members = append(members, member)
			}
		}
		if len(members) <= 1 {
			for _, member := range members {
				member.IsDuplicate = false
				member.DuplicateGroupID = ""
			}
			continue
		}
		group.Files = members
		pruned = append(pruned, group)
	}
	return pruned
}

// Reset returns the session to Idle from any step, discarding the scan,
// the selection, and the undo log.
func (s *Session) Reset() {
	s.step = StepIdle
	s.root = ""
	s.records = nil
	s.groups = nil
	s.selected = make(map[string]bool)
	s.undoLog = nil
	s.state = ProcessingState{}
}

func (s *Session) findRecord(path string) *catalog.FileRecord {
	for _, record := range s.records {
		if record.Path == path {
			return record
		}
	}
	return nil
}
