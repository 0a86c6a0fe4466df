package session

import (
	"context"
	"fmt"

	"github.com/fenilsonani/declutter/internal/catalog"
)

// Select adds a discovered file to the active selection.
func (s *Session) Select(path string) error {
	record := s.findRecord(path)
	if record == nil {
		return fmt.Errorf("no such file in the current scan: %s", path)
	}
	s.selected[path] = true
	return nil
}

// Deselect removes a file from the active selection.
func (s *Session) Deselect(path string) {
	delete(s.selected, path)
}

// SelectAll selects every classified file of the current scan.
func (s *Session) SelectAll() {
	for _, record := range s.records {
		if record.Category != catalog.CategoryUnknown {
			s.selected[record.Path] = true
		}
	}
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.selected = make(map[string]bool)
}

// Selected returns the selected records in scan order.
func (s *Session) Selected() []*catalog.FileRecord {
	out := make([]*catalog.FileRecord, 0, len(s.selected))
	for _, record := range s.records {
		if s.selected[record.Path] {
			out = append(out, record)
		}
	}
	return out
}

// SetCategory overrides a file's category by hand. Manual overrides are
// respected by later re-classification unless it is forced.
func (s *Session) SetCategory(path string, category catalog.Category) error {
	if !category.Valid() {
		return fmt.Errorf("unknown category: %q", category)
	}
	record := s.findRecord(path)
	if record == nil {
		return fmt.Errorf("no such file in the current scan: %s", path)
	}
	record.Category = category
	record.ManuallySet = true
	return nil
}

// Reclassify re-runs the external classifier over an explicit subset of
// files. With force false, manually categorized files are skipped; with
// force true the result overwrites any prior category.
func (s *Session) Reclassify(ctx context.Context, paths []string, force bool) error {
	subset := make([]*catalog.FileRecord, 0, len(paths))
	for _, path := range paths {
		record := s.findRecord(path)
		if record == nil {
			return fmt.Errorf("no such file in the current scan: %s", path)
		}
		subset = append(subset, record)
	}
	if err := s.resolver.Reclassify(ctx, subset, force); err != nil {
		return ErrCancelled
	}
	return nil
}
