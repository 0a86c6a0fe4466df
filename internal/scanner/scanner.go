// Package scanner enumerates a directory tree into flat file records and
// partitions them into exact-size duplicate groups.
package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/progress"
)

// ScanError reports a directory that could not be read. A single ScanError
// aborts the whole scan; no partial result is surfaced.
type ScanError struct {
	Dir string
	Err error
}

// Error implements the error interface
func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Dir, e.Err)
}

// Unwrap returns the underlying filesystem error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scanner walks a root directory and collects file records
type Scanner struct {
	fs               afero.Fs
	excluded         map[string]bool
	progressReporter *progress.Reporter
}

// New creates a Scanner over the given filesystem. Directories whose name
// exactly matches an entry in excluded are skipped entirely, wherever they
// appear in the tree.
func New(fs afero.Fs, excluded []string) *Scanner {
	set := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		if name != "" {
			set[name] = true
		}
	}
	return &Scanner{
		fs:               fs,
		excluded:         set,
		progressReporter: progress.NewReporter(),
	}
}

// SetProgressReporter sets a custom progress reporter
func (s *Scanner) SetProgressReporter(pr *progress.Reporter) {
	if pr != nil {
		s.progressReporter = pr
	}
}

// GetProgressReporter returns the scanner's progress reporter
func (s *Scanner) GetProgressReporter() *progress.Reporter {
	return s.progressReporter
}

// Scan recursively enumerates root depth-first and returns one record per
// non-excluded file. Paths are slash-joined and relative to root. The scan
// never mutates the filesystem.
func (s *Scanner) Scan(ctx context.Context, root string) ([]*catalog.FileRecord, error) {
	startTime := time.Now()
	s.reportScan(progress.PhaseScanning, root, 0, 0, startTime, nil)

	records := make([]*catalog.FileRecord, 0, 64)
	var totalSize int64

	if err := s.walk(ctx, root, "", &records, &totalSize, startTime); err != nil {
		s.reportScan(progress.PhaseError, root, len(records), totalSize, startTime, err)
		return nil, err
	}

	s.reportScan(progress.PhaseComplete, "", len(records), totalSize, startTime, nil)
	return records, nil
}

// walk descends one directory level. rel is the accumulated slash-joined
// path relative to the scan root, empty at the top.
func (s *Scanner) walk(ctx context.Context, dir, rel string, records *[]*catalog.FileRecord, totalSize *int64, startTime time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return &ScanError{Dir: dir, Err: err}
	}

	for _, entry := range entries {
		relPath := joinRel(rel, entry.Name())

		if entry.IsDir() {
			if s.excluded[entry.Name()] {
				continue
			}
			if err := s.walk(ctx, filepath.Join(dir, entry.Name()), relPath, records, totalSize, startTime); err != nil {
				return err
			}
			continue
		}

		record := catalog.NewFileRecord(relPath, entry.Size(), entry.ModTime())
		*records = append(*records, record)
		*totalSize += entry.Size()
		s.reportScan(progress.PhaseScanning, relPath, len(*records), *totalSize, startTime, nil)
	}

	return nil
}

// joinRel joins relative path segments with a forward slash regardless of
// the host separator.
func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}

// reportScan reports scan progress to listeners
func (s *Scanner) reportScan(phase progress.Phase, currentPath string, filesFound int, totalSize int64, startTime time.Time, err error) {
	if s.progressReporter == nil {
		return
	}
	s.progressReporter.UpdateScan(&progress.ScanProgress{
		Phase:       phase,
		CurrentPath: currentPath,
		FilesFound:  filesFound,
		TotalSize:   totalSize,
		StartTime:   startTime,
		Error:       err,
	})
}

// SortByPath orders records lexicographically by their relative path. The
// walker already emits a deterministic depth-first order; this is for
// callers that re-merge record subsets.
func SortByPath(records []*catalog.FileRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
}
