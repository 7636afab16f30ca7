// Package models defines the data objects shared across lazystage packages.
package models

// Category identifies which section of the status list an entry belongs to.
type Category int

// Categories in their fixed display order.
const (
	CategoryIndex Category = iota
	CategoryWorkspace
	CategoryUntracked
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{CategoryIndex, CategoryWorkspace, CategoryUntracked}
}

// Title returns the section heading for the category.
func (c Category) Title() string {
	switch c {
	case CategoryIndex:
		return "Index"
	case CategoryWorkspace:
		return "Workspace"
	case CategoryUntracked:
		return "Untracked"
	}
	return ""
}

// Row is a closed variant: either a Header labeling a category section or an
// Item representing one changed path. Keeping the variant closed forces
// exhaustive type switches at every place that walks the list.
type Row interface {
	rowCategory() Category
}

// Header is a non-selectable synthetic row that labels a category group.
type Header struct {
	Category Category
}

func (h *Header) rowCategory() Category { return h.Category }

// Item is a selectable, markable row for one changed path. Identity is
// (Path, Category): stable across full list rebuilds even though the row
// value itself is replaced.
type Item struct {
	Path     string
	Status   string
	Category Category
	Marked   bool
}

func (i *Item) rowCategory() Category { return i.Category }

// SameIdentity reports whether other refers to the same change entry.
func (i *Item) SameIdentity(other *Item) bool {
	return other != nil && i.Path == other.Path && i.Category == other.Category
}

// FileStatus is one (path, change kind) pair from a status snapshot.
type FileStatus struct {
	Path   string
	Status string // "new file", "modified", "deleted", "renamed", "typechange"
}

// StatusSnapshot is the backend's view of the pending change-set, already
// split into the three display groups.
type StatusSnapshot struct {
	Index     []FileStatus
	Workspace []FileStatus
	Untracked []string
}

// Empty reports whether the snapshot holds no entries at all.
func (s *StatusSnapshot) Empty() bool {
	return len(s.Index) == 0 && len(s.Workspace) == 0 && len(s.Untracked) == 0
}
