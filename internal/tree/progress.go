package tree

import "math"

// Progress is a completion roll-up. Total counts leaf nodes only: an
// internal node's own status is display-only and never enters the
// percentage. This is deliberate, inherited behavior — a "blocked"
// internal node with completed children still reads 100%.
type Progress struct {
	Completed  int
	Total      int
	Percentage int
}

// NodeProgress computes the completion roll-up for one node.
// A leaf counts itself (total 1, completed 0 or 1); an internal node
// sums its children recursively.
func NodeProgress(x *Index, id string) Progress {
	n := x.Node(id)
	if n == nil {
		return Progress{}
	}
	completed, total := countLeaves(x, id, map[string]bool{id: true})
	return makeProgress(completed, total)
}

// ProjectProgress sums the roll-ups of every root in the index.
func ProjectProgress(x *Index) Progress {
	var completed, total int
	visited := make(map[string]bool)
	for _, r := range x.Roots() {
		if visited[r.ID] {
			continue
		}
		visited[r.ID] = true
		c, tot := countLeaves(x, r.ID, visited)
		completed += c
		total += tot
	}
	return makeProgress(completed, total)
}

func countLeaves(x *Index, id string, visited map[string]bool) (completed, total int) {
	children := x.Children(id)
	if len(children) == 0 {
		n := x.Node(id)
		if n != nil && n.IsCompleted() {
			return 1, 1
		}
		return 0, 1
	}
	for _, c := range children {
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true
		cc, ct := countLeaves(x, c.ID, visited)
		completed += cc
		total += ct
	}
	return completed, total
}

func makeProgress(completed, total int) Progress {
	p := Progress{Completed: completed, Total: total}
	if total > 0 {
		p.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return p
}
