package testutil

import (
	"time"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/google/uuid"
)

// Project options

type ProjectOption func(*domain.Project)

func WithProjectDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = &d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GoalNode options

type NodeOption func(*domain.GoalNode)

func WithParentID(id string) NodeOption {
	return func(n *domain.GoalNode) {
		n.ParentID = &id
	}
}

func WithStatus(s domain.NodeStatus) NodeOption {
	return func(n *domain.GoalNode) {
		n.Status = s
		if s == domain.StatusCompleted {
			now := time.Now().UTC()
			n.CompletedAt = &now
		}
	}
}

func WithPriority(p domain.Priority) NodeOption {
	return func(n *domain.GoalNode) {
		n.Priority = p
	}
}

func WithOrder(i int) NodeOption {
	return func(n *domain.GoalNode) {
		n.OrderIndex = i
	}
}

func WithCollapsed() NodeOption {
	return func(n *domain.GoalNode) {
		n.IsCollapsed = true
	}
}

func WithDueDate(d time.Time) NodeOption {
	return func(n *domain.GoalNode) {
		n.DueDate = &d
	}
}

func WithEstimatedHours(h float64) NodeOption {
	return func(n *domain.GoalNode) {
		n.EstimatedHours = &h
	}
}

func NewTestNode(projectID, title string, opts ...NodeOption) *domain.GoalNode {
	now := time.Now().UTC()
	n := &domain.GoalNode{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.StatusOpen,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}
