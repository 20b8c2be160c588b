package domain

import "time"

// GoalNode is a single goal in a project's decomposition tree.
// ParentID of nil means the node is a root. OrderIndex defines the
// sibling sequence; ties are tolerated and broken by insertion order.
type GoalNode struct {
	ID             string
	ProjectID      string
	ParentID       *string
	Title          string
	Description    *string
	Notes          *string
	Status         NodeStatus
	Priority       Priority
	EstimatedHours *float64
	DueDate        *time.Time
	OrderIndex     int
	IsCollapsed    bool
	// Categories maps a category-type identifier to a chosen category
	// identifier. Display and filtering only; the tree algorithms never
	// read it.
	Categories map[string]string
	// CompletedAt is set exactly when Status transitions into
	// StatusCompleted and cleared whenever Status leaves it. Never
	// written independently of a status change.
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCompleted reports whether the node's status is completed.
func (n *GoalNode) IsCompleted() bool {
	return n.Status == StatusCompleted
}

// IsRoot reports whether the node has no parent.
func (n *GoalNode) IsRoot() bool {
	return n.ParentID == nil
}

// Clone returns a deep copy of the node. Tree algorithms operate on
// snapshots and must never mutate repository-owned records.
func (n *GoalNode) Clone() *GoalNode {
	c := *n
	if n.ParentID != nil {
		v := *n.ParentID
		c.ParentID = &v
	}
	if n.Description != nil {
		v := *n.Description
		c.Description = &v
	}
	if n.Notes != nil {
		v := *n.Notes
		c.Notes = &v
	}
	if n.EstimatedHours != nil {
		v := *n.EstimatedHours
		c.EstimatedHours = &v
	}
	if n.DueDate != nil {
		v := *n.DueDate
		c.DueDate = &v
	}
	if n.CompletedAt != nil {
		v := *n.CompletedAt
		c.CompletedAt = &v
	}
	if n.Categories != nil {
		c.Categories = make(map[string]string, len(n.Categories))
		for k, v := range n.Categories {
			c.Categories[k] = v
		}
	}
	return &c
}
