// internal/domain/category/tree.go
package category

import (
	"sort"
	"strings"
)

// Children returns the direct children of parentID ("" = roots),
// ascending by SortOrder. Ties keep the order of all.
func Children(all []Category, parentID string) []Category {
	pid := strings.TrimSpace(parentID)

	out := make([]Category, 0)
	for _, c := range all {
		if strings.TrimSpace(c.ParentID) == pid {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// Path walks parent links from id to the root and returns root→node.
// A parent chain that revisits a node returns ErrCycle; a dangling
// parent id ends the walk at the last category found.
func Path(all []Category, id string) ([]Category, error) {
	byID := index(all)

	cur, ok := byID[strings.TrimSpace(id)]
	if !ok {
		return nil, ErrNotFound
	}

	seen := map[string]bool{}
	var path []Category
	for {
		if seen[cur.ID] {
			return nil, ErrCycle
		}
		seen[cur.ID] = true
		path = append([]Category{cur}, path...)

		if cur.IsRoot() {
			return path, nil
		}
		parent, ok := byID[strings.TrimSpace(cur.ParentID)]
		if !ok {
			return path, nil
		}
		cur = parent
	}
}

// Descendants returns every descendant of id in deletion order:
// depth-first, each node after all of its own descendants.
// The node itself is not included.
func Descendants(all []Category, id string) ([]Category, error) {
	root := strings.TrimSpace(id)
	seen := map[string]bool{root: true}

	var out []Category
	var walk func(pid string) error
	walk = func(pid string) error {
		for _, child := range Children(all, pid) {
			if seen[child.ID] {
				return ErrCycle
			}
			seen[child.ID] = true
			if err := walk(child.ID); err != nil {
				return err
			}
			out = append(out, child)
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

// WouldCycle reports whether re-parenting id under newParentID
// would make id its own ancestor.
func WouldCycle(all []Category, id, newParentID string) bool {
	id = strings.TrimSpace(id)
	pid := strings.TrimSpace(newParentID)
	if pid == "" {
		return false
	}
	if pid == id {
		return true
	}

	byID := index(all)
	seen := map[string]bool{}
	for pid != "" {
		if pid == id || seen[pid] {
			return true
		}
		seen[pid] = true
		parent, ok := byID[pid]
		if !ok {
			return false
		}
		pid = strings.TrimSpace(parent.ParentID)
	}
	return false
}

func index(all []Category) map[string]Category {
	m := make(map[string]Category, len(all))
	for _, c := range all {
		m[strings.TrimSpace(c.ID)] = c
	}
	return m
}
