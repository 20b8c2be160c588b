package tree

import "github.com/arborcli/arbor/internal/domain"

// InvalidParents returns the ids of nodes whose parent pointer is
// structurally invalid: it references a node that does not exist, a
// node in a different project, or a node that makes the chain cyclic
// (the node is its own ancestor). Callers repair by nulling the parent
// of each reported node, which re-roots the offending subtree.
//
// The check is read-only and idempotent: running it again after the
// repair reports nothing.
func InvalidParents(nodes []*domain.GoalNode) []string {
	byID := make(map[string]*domain.GoalNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var invalid []string
	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		parent, ok := byID[*n.ParentID]
		if !ok || parent.ProjectID != n.ProjectID {
			invalid = append(invalid, n.ID)
			continue
		}
		if onOwnAncestorChain(n, byID) {
			invalid = append(invalid, n.ID)
		}
	}
	return invalid
}

// onOwnAncestorChain walks up from n and reports whether the walk
// returns to n. The visited set bounds the walk on cycles that do not
// include n itself.
func onOwnAncestorChain(n *domain.GoalNode, byID map[string]*domain.GoalNode) bool {
	visited := make(map[string]bool)
	cur := n
	for cur.ParentID != nil {
		parent, ok := byID[*cur.ParentID]
		if !ok {
			return false
		}
		if parent.ID == n.ID {
			return true
		}
		if visited[parent.ID] {
			return false
		}
		visited[parent.ID] = true
		cur = parent
	}
	return false
}
