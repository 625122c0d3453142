// Package chapters rebuilds resource outlines from the flat chapter list the API returns.
package chapters

import "github.com/rcliao/onboard/internal/model"

// Reconstruct attaches every chapter to its parent and returns the top-level
// chapters in input order. Children keep their input order as sibling order.
//
// The outline is modelled as two levels; a grandchild is attached to its
// direct parent. A chapter whose parent is not in the list is attached
// nowhere and is therefore missing from the result (see Orphans).
// Input chapters are copied, never mutated.
func Reconstruct(flat []*model.Chapter) []*model.Chapter {
	nodes := make([]*model.Chapter, 0, len(flat))
	byID := make(map[int]*model.Chapter, len(flat))
	for _, c := range flat {
		if c == nil {
			continue
		}
		n := *c
		n.Chapters = nil
		nodes = append(nodes, &n)
		// first match wins on duplicate ids, like a linear scan
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = &n
		}
	}

	top := make([]*model.Chapter, 0, len(nodes))
	for _, n := range nodes {
		if n.ParentChapter == nil {
			top = append(top, n)
			continue
		}
		if p, ok := byID[*n.ParentChapter]; ok {
			p.Chapters = append(p.Chapters, n)
		}
	}
	return top
}

// Orphans returns the chapters whose parent id does not occur in the list.
// Reconstruct drops them.
func Orphans(flat []*model.Chapter) []*model.Chapter {
	known := make(map[int]bool, len(flat))
	for _, c := range flat {
		if c != nil {
			known[c.ID] = true
		}
	}
	var out []*model.Chapter
	for _, c := range flat {
		if c != nil && c.ParentChapter != nil && !known[*c.ParentChapter] {
			out = append(out, c)
		}
	}
	return out
}

// Flatten walks a reconstructed outline depth-first and returns the chapter
// ids in reading order. Each chapter is visited at most once.
func Flatten(tree []*model.Chapter) []int {
	var ids []int
	seen := map[*model.Chapter]bool{}
	var walk func([]*model.Chapter)
	walk = func(level []*model.Chapter) {
		for _, c := range level {
			if seen[c] {
				continue
			}
			seen[c] = true
			ids = append(ids, c.ID)
			walk(c.Chapters)
		}
	}
	walk(tree)
	return ids
}

// Find returns the chapter with the given id anywhere in the outline.
func Find(tree []*model.Chapter, id int) *model.Chapter {
	for _, c := range tree {
		if c.ID == id {
			return c
		}
		if found := Find(c.Chapters, id); found != nil {
			return found
		}
	}
	return nil
}
