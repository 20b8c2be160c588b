package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/repository"
	"github.com/arborcli/arbor/internal/tree"
	"github.com/google/uuid"
)

type nodeService struct {
	nodes repository.NodeRepo
}

func NewNodeService(nodes repository.NodeRepo) NodeService {
	return &nodeService{nodes: nodes}
}

func (s *nodeService) Create(ctx context.Context, n *domain.GoalNode) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Status == "" {
		n.Status = domain.StatusOpen
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	if n.ParentID != nil {
		parent, err := s.nodes.GetByID(ctx, *n.ParentID)
		if err != nil {
			return fmt.Errorf("resolving parent: %w", err)
		}
		if parent.ProjectID != n.ProjectID {
			return fmt.Errorf("parent %s belongs to a different project", parent.ID)
		}
	}

	order, err := s.nextSiblingOrder(ctx, n.ProjectID, n.ParentID)
	if err != nil {
		return err
	}
	n.OrderIndex = order

	return s.nodes.Create(ctx, n)
}

// nextSiblingOrder returns max(existing order) + 1 within a sibling
// group, or 0 for the first member.
func (s *nodeService) nextSiblingOrder(ctx context.Context, projectID string, parentID *string) (int, error) {
	var siblings []*domain.GoalNode
	var err error
	if parentID == nil {
		siblings, err = s.nodes.ListRoots(ctx, projectID)
	} else {
		siblings, err = s.nodes.ListChildren(ctx, *parentID)
	}
	if err != nil {
		return 0, fmt.Errorf("listing siblings: %w", err)
	}

	next := 0
	for _, sib := range siblings {
		if sib.OrderIndex >= next {
			next = sib.OrderIndex + 1
		}
	}
	return next, nil
}

func (s *nodeService) GetByID(ctx context.Context, id string) (*domain.GoalNode, error) {
	return s.nodes.GetByID(ctx, id)
}

func (s *nodeService) ListByProject(ctx context.Context, projectID string) ([]*domain.GoalNode, error) {
	return s.nodes.ListByProject(ctx, projectID)
}

func (s *nodeService) UpdateFields(ctx context.Context, id string, patch NodePatch) (*domain.GoalNode, error) {
	n, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Description != nil {
		n.Description = patch.Description
	}
	if patch.ClearDescription {
		n.Description = nil
	}
	if patch.Notes != nil {
		n.Notes = patch.Notes
	}
	if patch.ClearNotes {
		n.Notes = nil
	}
	if patch.Priority != nil {
		n.Priority = *patch.Priority
	}
	if patch.EstimatedHours != nil {
		if *patch.EstimatedHours < 0 {
			return nil, fmt.Errorf("estimated hours must be non-negative")
		}
		n.EstimatedHours = patch.EstimatedHours
	}
	if patch.ClearEstimatedHours {
		n.EstimatedHours = nil
	}
	if patch.DueDate != nil {
		n.DueDate = patch.DueDate
	}
	if patch.ClearDueDate {
		n.DueDate = nil
	}
	if patch.Categories != nil {
		n.Categories = patch.Categories
	}

	n.UpdatedAt = time.Now().UTC()
	if err := s.nodes.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *nodeService) SetStatus(ctx context.Context, id string, status domain.NodeStatus, propagate bool) ([]string, error) {
	n, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyStatus(ctx, n, status); err != nil {
		return nil, err
	}
	if status != domain.StatusCompleted || !propagate {
		return nil, nil
	}

	// Rebuild the snapshot after the write so the cascade sees the new
	// status, then roll completion up the ancestor chain. A failure
	// mid-chain stops the walk; the already-updated ancestors keep a
	// consistent tree, just not a fully rolled-up one.
	all, err := s.nodes.ListByProject(ctx, n.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project snapshot: %w", err)
	}
	idx := tree.NewIndex(all)

	var applied []string
	for _, ancestorID := range tree.CompletionCascade(idx, id) {
		ancestor := idx.Node(ancestorID)
		if err := s.applyStatus(ctx, ancestor, domain.StatusCompleted); err != nil {
			return applied, fmt.Errorf("auto-completing ancestor %s: %w", ancestorID, err)
		}
		applied = append(applied, ancestorID)
	}
	return applied, nil
}

// applyStatus writes a status transition, keeping CompletedAt a pure
// function of the status.
func (s *nodeService) applyStatus(ctx context.Context, n *domain.GoalNode, status domain.NodeStatus) error {
	wasCompleted := n.Status == domain.StatusCompleted
	n.Status = status
	now := time.Now().UTC()

	switch {
	case status == domain.StatusCompleted && !wasCompleted:
		n.CompletedAt = &now
	case status != domain.StatusCompleted:
		n.CompletedAt = nil
	}

	n.UpdatedAt = now
	return s.nodes.Update(ctx, n)
}

func (s *nodeService) Move(ctx context.Context, id string, newParentID *string) error {
	n, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if newParentID != nil {
		if *newParentID == id {
			return fmt.Errorf("node cannot be its own parent")
		}
		parent, err := s.nodes.GetByID(ctx, *newParentID)
		if err != nil {
			return fmt.Errorf("resolving new parent: %w", err)
		}
		if parent.ProjectID != n.ProjectID {
			return fmt.Errorf("cannot move across projects")
		}

		// The new parent must not live inside the moving subtree.
		all, err := s.nodes.ListByProject(ctx, n.ProjectID)
		if err != nil {
			return fmt.Errorf("loading project snapshot: %w", err)
		}
		idx := tree.NewIndex(all)
		for _, d := range idx.Descendants(id) {
			if d.ID == *newParentID {
				return fmt.Errorf("cannot move %s under its own descendant %s", id, *newParentID)
			}
		}
	}

	order, err := s.nextSiblingOrder(ctx, n.ProjectID, newParentID)
	if err != nil {
		return err
	}

	n.ParentID = newParentID
	n.OrderIndex = order
	n.UpdatedAt = time.Now().UTC()
	return s.nodes.Update(ctx, n)
}

func (s *nodeService) SetCollapsed(ctx context.Context, id string, collapsed bool) error {
	n, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	n.IsCollapsed = collapsed
	n.UpdatedAt = time.Now().UTC()
	return s.nodes.Update(ctx, n)
}

func (s *nodeService) Delete(ctx context.Context, id string) error {
	n, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	all, err := s.nodes.ListByProject(ctx, n.ProjectID)
	if err != nil {
		return fmt.Errorf("loading project snapshot: %w", err)
	}
	idx := tree.NewIndex(all)

	// Descendants come back pre-order; deleting in reverse removes
	// leaves before their parents.
	descendants := idx.Descendants(id)
	for i := len(descendants) - 1; i >= 0; i-- {
		if err := s.nodes.Delete(ctx, descendants[i].ID); err != nil {
			return fmt.Errorf("deleting descendant %s: %w", descendants[i].ID, err)
		}
	}
	return s.nodes.Delete(ctx, id)
}

func (s *nodeService) Repair(ctx context.Context, projectID string) (int, error) {
	all, err := s.nodes.ListByProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("loading project snapshot: %w", err)
	}

	byID := make(map[string]*domain.GoalNode, len(all))
	for _, n := range all {
		byID[n.ID] = n
	}

	repaired := 0
	for _, id := range tree.InvalidParents(all) {
		n := byID[id]
		n.ParentID = nil
		n.UpdatedAt = time.Now().UTC()
		if err := s.nodes.Update(ctx, n); err != nil {
			return repaired, fmt.Errorf("re-rooting node %s: %w", id, err)
		}
		repaired++
	}
	return repaired, nil
}

func (s *nodeService) Snapshot(ctx context.Context, projectID string) (*tree.Index, error) {
	all, err := s.nodes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return tree.NewIndex(all), nil
}
