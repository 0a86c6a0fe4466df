package scanner

import (
	"fmt"
	"sort"

	"github.com/fenilsonani/declutter/internal/catalog"
)

// GroupBySize buckets records by exact byte size and returns one group per
// bucket holding more than one file. Every member of a group gets its
// IsDuplicate flag and DuplicateGroupID set; singleton buckets are left
// untouched. This is a pre-content heuristic: same size does not guarantee
// same content, which the caller must accept.
func GroupBySize(records []*catalog.FileRecord) []*catalog.DuplicateGroup {
	buckets := make(map[int64][]*catalog.FileRecord)
	for _, record := range records {
		buckets[record.Size] = append(buckets[record.Size], record)
	}

	groups := make([]*catalog.DuplicateGroup, 0)
	for size, members := range buckets {
		if len(members) <= 1 {
			continue
		}
		id := catalog.GroupID(size)
		for _, member := range members {
			member.IsDuplicate = true
			member.DuplicateGroupID = id
		}
		groups = append(groups, &catalog.DuplicateGroup{
			ID:    id,
			Size:  size,
			Files: members,
		})
	}

	// Map iteration order is random; keep group order stable across scans.
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Size < groups[j].Size
	})

	return groups
}

// MarkKeep records the single file to keep in a duplicate group: every
// other member is marked for deletion and the keep target is unmarked.
// Re-marking a different member atomically swaps the choice, so exactly
// one member of the group is ever unmarked.
func MarkKeep(group *catalog.DuplicateGroup, keepPath string) error {
	var keep *catalog.FileRecord
	for _, member := range group.Files {
		if member.Path == keepPath {
			keep = member
			break
		}
	}
	if keep == nil {
		return fmt.Errorf("file %s is not a member of %s", keepPath, group.ID)
	}

	for _, member := range group.Files {
		member.MarkedForDeletion = member != keep
	}
	return nil
}

// Resolved reports whether a group no longer needs attention: at most one
// member is left unmarked.
func Resolved(group *catalog.DuplicateGroup) bool {
	unmarked := 0
	for _, member := range group.Files {
		if !member.MarkedForDeletion {
			unmarked++
		}
	}
	return unmarked <= 1
}
