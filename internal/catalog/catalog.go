// Package catalog defines the file records, category set, and duplicate
// groups shared by the scanner, classifier, and mover packages. A FileRecord
// is created once per scan and is invalidated when a new scan starts or when
// the file is moved or deleted.
package catalog

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Category is one label from the closed set assigned to a file.
type Category string

const (
	CategoryDocuments  Category = "Documents"
	CategoryImages     Category = "Images"
	CategoryVideos     Category = "Videos"
	CategoryArchives   Category = "Archives"
	CategoryInstallers Category = "Installers"
	CategoryCode       Category = "Code"
	CategoryAudio      Category = "Audio"
	CategoryJunk       Category = "Junk"
	CategoryUnknown    Category = "Unknown"
)

// Categories lists every valid category label in display order.
var Categories = []Category{
	CategoryDocuments,
	CategoryImages,
	CategoryVideos,
	CategoryArchives,
	CategoryInstallers,
	CategoryCode,
	CategoryAudio,
	CategoryJunk,
	CategoryUnknown,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Movable reports whether files in this category may be relocated by an
// organize pass. Unknown and Junk files are never moved.
func (c Category) Movable() bool {
	return c.Valid() && c != CategoryUnknown && c != CategoryJunk
}

// ParseCategory resolves a label case-insensitively to a Category.
func ParseCategory(label string) (Category, bool) {
	trimmed := strings.TrimSpace(label)
	for _, known := range Categories {
		if strings.EqualFold(trimmed, string(known)) {
			return known, true
		}
	}
	return CategoryUnknown, false
}

// FileRecord is one discovered file. Path is slash-separated, relative to
// the scan root, and is the record's identity key within a scan.
type FileRecord struct {
	Name              string    `json:"name"`
	Path              string    `json:"path"`
	Size              int64     `json:"size"`
	LastModified      time.Time `json:"last_modified"`
	Extension         string    `json:"extension"`
	Category          Category  `json:"category"`
	ManuallySet       bool      `json:"manually_set,omitempty"`
	IsDuplicate       bool      `json:"is_duplicate,omitempty"`
	DuplicateGroupID  string    `json:"duplicate_group_id,omitempty"`
	MarkedForDeletion bool      `json:"-"`
}

// NewFileRecord builds a record from a relative slash path, deriving the
// leaf name and normalized extension. Category starts at Unknown.
func NewFileRecord(relPath string, size int64, modTime time.Time) *FileRecord {
	name := path.Base(relPath)
	return &FileRecord{
		Name:         name,
		Path:         relPath,
		Size:         size,
		LastModified: modTime,
		Extension:    ExtensionOf(name),
		Category:     CategoryUnknown,
	}
}

// ExtensionOf returns the lower-cased suffix after the last dot of a file
// name, or the empty string when the name has no extension.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// DuplicateGroup is a set of records sharing an exact byte size. Groups are
// only created with two or more members.
type DuplicateGroup struct {
	ID    string        `json:"id"`
	Size  int64         `json:"size"`
	Files []*FileRecord `json:"files"`
}

// GroupID derives the stable, size-based identifier for a duplicate group.
func GroupID(size int64) string {
	return fmt.Sprintf("group-%d", size)
}
