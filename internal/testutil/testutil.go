// Package testutil provides test helpers and fixtures for declutter tests.
// Fixtures build an in-memory filesystem so tests never touch the host.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/fenilsonani/declutter/internal/catalog"
)

// Fixture holds an in-memory filesystem rooted at Root
type Fixture struct {
	T    *testing.T
	FS   afero.Fs
	Root string
}

// NewFixture creates a fixture with an empty in-memory filesystem
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	root := "/scan"
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}

	return &Fixture{T: t, FS: fs, Root: root}
}

// WriteFile creates a file under the fixture root with the given content
func (f *Fixture) WriteFile(relPath, content string) {
	f.T.Helper()

	fullPath := f.Root + "/" + relPath
	if err := f.FS.MkdirAll(parentDir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := afero.WriteFile(f.FS, fullPath, []byte(content), 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", relPath, err)
	}
}

// WriteFileSized creates a file of the given size filled with zero bytes
func (f *Fixture) WriteFileSized(relPath string, size int) {
	f.T.Helper()
	f.WriteFile(relPath, string(make([]byte, size)))
}

// WriteTree creates several files at once, keyed by relative path
func (f *Fixture) WriteTree(files map[string]string) {
	f.T.Helper()
	for relPath, content := range files {
		f.WriteFile(relPath, content)
	}
}

// ReadFile returns the content of a file under the fixture root
func (f *Fixture) ReadFile(relPath string) string {
	f.T.Helper()

	data, err := afero.ReadFile(f.FS, f.Root+"/"+relPath)
	if err != nil {
		f.T.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(data)
}

// Exists reports whether a path exists under the fixture root
func (f *Fixture) Exists(relPath string) bool {
	f.T.Helper()

	ok, err := afero.Exists(f.FS, f.Root+"/"+relPath)
	if err != nil {
		f.T.Fatalf("failed to check %s: %v", relPath, err)
	}
	return ok
}

// Record builds a classified file record for tests that bypass the scanner
func Record(relPath string, size int64, category catalog.Category) *catalog.FileRecord {
	record := catalog.NewFileRecord(relPath, size, time.Now())
	record.Category = category
	return record
}

// Ctx returns a background context for test calls
func Ctx() context.Context {
	return context.Background()
}

// FakeClassifier is a canned NameClassifier implementation
type FakeClassifier struct {
	Response map[string]catalog.Category
	Err      error
	Calls    [][]string
}

// ClassifyNames records the call and returns the canned response
func (f *FakeClassifier) ClassifyNames(_ context.Context, names []string) (map[string]catalog.Category, error) {
	f.Calls = append(f.Calls, names)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Response, nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "/"
}
