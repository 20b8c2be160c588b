// Package tree holds the pure algorithms at the heart of arbor:
// adjacency indexing, structural repair, progress aggregation, and
// completion cascading. Every function operates on an immutable
// snapshot of a project's flat node list and is safe to re-run; the
// callers rebuild the index after each mutation.
package tree

import (
	"sort"

	"github.com/arborcli/arbor/internal/domain"
)

// Index is a parent→children adjacency over one project's flat node
// list. Child lists are sorted by OrderIndex, stable in insertion
// order so duplicate order values are tolerated. A node whose parent
// pointer dangles is indexed as a root, which matches what a repair
// pass would make of it; cycle members keep their (broken) parent
// links and are handled defensively by every traversal.
type Index struct {
	nodes    map[string]*domain.GoalNode
	children map[string][]*domain.GoalNode
	roots    []*domain.GoalNode
}

// NewIndex builds an Index from a flat node list. The input slice and
// its nodes are not mutated or retained beyond the pointers themselves.
func NewIndex(nodes []*domain.GoalNode) *Index {
	x := &Index{
		nodes:    make(map[string]*domain.GoalNode, len(nodes)),
		children: make(map[string][]*domain.GoalNode),
	}
	for _, n := range nodes {
		x.nodes[n.ID] = n
	}
	for _, n := range nodes {
		if n.ParentID == nil {
			x.roots = append(x.roots, n)
			continue
		}
		if _, ok := x.nodes[*n.ParentID]; !ok {
			// Dangling parent: index as a root so the node stays reachable.
			x.roots = append(x.roots, n)
			continue
		}
		x.children[*n.ParentID] = append(x.children[*n.ParentID], n)
	}

	sortSiblings(x.roots)
	for _, siblings := range x.children {
		sortSiblings(siblings)
	}
	return x
}

func sortSiblings(siblings []*domain.GoalNode) {
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].OrderIndex < siblings[j].OrderIndex
	})
}

// Node returns the node with the given id, or nil.
func (x *Index) Node(id string) *domain.GoalNode {
	return x.nodes[id]
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int {
	return len(x.nodes)
}

// Roots returns the root nodes in sibling order.
func (x *Index) Roots() []*domain.GoalNode {
	return x.roots
}

// Children returns the ordered direct children of the given node.
func (x *Index) Children(id string) []*domain.GoalNode {
	return x.children[id]
}

// WalkAncestors calls fn for each ancestor of id, nearest first,
// stopping early if fn returns false. A visited set guards against
// parent cycles, so the walk always terminates.
func (x *Index) WalkAncestors(id string, fn func(n *domain.GoalNode) bool) {
	visited := map[string]bool{id: true}
	cur := x.nodes[id]
	for cur != nil && cur.ParentID != nil {
		parent := x.nodes[*cur.ParentID]
		if parent == nil || visited[parent.ID] {
			return
		}
		visited[parent.ID] = true
		if !fn(parent) {
			return
		}
		cur = parent
	}
}

// Ancestors returns the ancestor chain of id, nearest first.
func (x *Index) Ancestors(id string) []*domain.GoalNode {
	var out []*domain.GoalNode
	x.WalkAncestors(id, func(n *domain.GoalNode) bool {
		out = append(out, n)
		return true
	})
	return out
}

// WalkDescendants calls fn for each descendant of id in pre-order,
// stopping early if fn returns false.
func (x *Index) WalkDescendants(id string, fn func(n *domain.GoalNode) bool) {
	x.walkDescendants(id, map[string]bool{id: true}, fn)
}

func (x *Index) walkDescendants(id string, visited map[string]bool, fn func(n *domain.GoalNode) bool) bool {
	for _, c := range x.children[id] {
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true
		if !fn(c) {
			return false
		}
		if !x.walkDescendants(c.ID, visited, fn) {
			return false
		}
	}
	return true
}

// Descendants returns all descendants of id in pre-order.
func (x *Index) Descendants(id string) []*domain.GoalNode {
	var out []*domain.GoalNode
	x.WalkDescendants(id, func(n *domain.GoalNode) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Depth returns the number of ancestors above id. Roots are depth 0;
// unknown ids report 0.
func (x *Index) Depth(id string) int {
	return len(x.Ancestors(id))
}

// IsLeaf reports whether the node has no children.
func (x *Index) IsLeaf(id string) bool {
	return len(x.children[id]) == 0
}

// NodeView is a materialized nested view of a subtree, children
// recursively sorted by sibling order.
type NodeView struct {
	Node     *domain.GoalNode
	Children []*NodeView
}

// Nested materializes the whole forest as nested NodeViews.
func (x *Index) Nested() []*NodeView {
	visited := make(map[string]bool)
	views := make([]*NodeView, 0, len(x.roots))
	for _, r := range x.roots {
		if visited[r.ID] {
			continue
		}
		visited[r.ID] = true
		views = append(views, x.nest(r, visited))
	}
	return views
}

func (x *Index) nest(n *domain.GoalNode, visited map[string]bool) *NodeView {
	v := &NodeView{Node: n}
	for _, c := range x.children[n.ID] {
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true
		v.Children = append(v.Children, x.nest(c, visited))
	}
	return v
}
