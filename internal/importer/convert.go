package importer

import (
	"fmt"
	"time"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/google/uuid"
)

// Converted holds the domain records produced from a validated schema.
type Converted struct {
	Project *domain.Project
	Nodes   []*domain.GoalNode
	// Repaired counts enum values that fell back to a safe default.
	Repaired int
}

// Convert transforms a validated ImportSchema into domain objects
// ready for persistence. Call ValidateImportSchema first; Convert
// assumes refs resolve.
func Convert(schema *ImportSchema) (*Converted, error) {
	now := time.Now().UTC()

	project := &domain.Project{
		ID:          uuid.New().String(),
		Name:        schema.Project.Name,
		Description: schema.Project.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	out := &Converted{Project: project}
	refMap := make(map[string]string, len(schema.Nodes))
	orderBySibling := make(map[string]int)

	for _, in := range schema.Nodes {
		id := uuid.New().String()
		refMap[in.Ref] = id

		var parentID *string
		siblingKey := ""
		if in.ParentRef != nil && *in.ParentRef != "" {
			pid, ok := refMap[*in.ParentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for node %q", *in.ParentRef, in.Ref)
			}
			parentID = &pid
			siblingKey = pid
		}

		status := domain.ParseNodeStatus(in.Status)
		if in.Status != "" && string(status) != in.Status {
			out.Repaired++
		}
		priority := domain.ParsePriority(in.Priority)
		if in.Priority != "" && string(priority) != in.Priority {
			out.Repaired++
		}

		node := &domain.GoalNode{
			ID:             id,
			ProjectID:      project.ID,
			ParentID:       parentID,
			Title:          in.Title,
			Description:    in.Description,
			Notes:          in.Notes,
			Status:         status,
			Priority:       priority,
			EstimatedHours: in.EstimatedHours,
			DueDate:        parseOptionalDate(in.DueDate),
			OrderIndex:     orderBySibling[siblingKey],
			IsCollapsed:    in.Collapsed,
			Categories:     in.Categories,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if status == domain.StatusCompleted {
			node.CompletedAt = &now
		}
		orderBySibling[siblingKey]++

		out.Nodes = append(out.Nodes, node)
	}

	return out, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
