package tree

// CompletionCascade returns the ancestors of a node that should
// auto-complete after that node transitioned to completed, ordered
// nearest-ancestor first. The walk climbs while every direct child of
// the next ancestor is either already completed or queued earlier in
// this same cascade, and stops at the first ancestor with an
// unfinished child.
//
// Callers apply the status updates in the returned order; if one
// update fails, the remaining (rootward) ancestors are simply not
// updated and the tree stays consistent. Only status-to-completed
// transitions may trigger this, and only when the caller opts in —
// bulk import paths skip it.
func CompletionCascade(x *Index, id string) []string {
	trigger := x.Node(id)
	if trigger == nil || !trigger.IsCompleted() {
		return nil
	}

	pending := map[string]bool{id: true}
	var result []string

	cur := trigger
	for cur.ParentID != nil {
		parent := x.Node(*cur.ParentID)
		if parent == nil || pending[parent.ID] || parent.IsCompleted() {
			break
		}
		if !allChildrenDone(x, parent.ID, pending) {
			break
		}
		result = append(result, parent.ID)
		pending[parent.ID] = true
		cur = parent
	}
	return result
}

func allChildrenDone(x *Index, parentID string, pending map[string]bool) bool {
	for _, c := range x.Children(parentID) {
		if !c.IsCompleted() && !pending[c.ID] {
			return false
		}
	}
	return true
}
