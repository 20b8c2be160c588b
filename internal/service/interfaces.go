package service

import (
	"context"
	"time"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/importer"
	"github.com/arborcli/arbor/internal/tree"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// NodePatch is a partial field update. Nil pointers leave a field
// untouched; the Clear flags null out the optional fields. Status is
// deliberately absent — SetStatus owns status and CompletedAt.
type NodePatch struct {
	Title               *string
	Description         *string
	Notes               *string
	Priority            *domain.Priority
	EstimatedHours      *float64
	DueDate             *time.Time
	Categories          map[string]string
	ClearDescription    bool
	ClearNotes          bool
	ClearEstimatedHours bool
	ClearDueDate        bool
}

type NodeService interface {
	// Create assigns id, timestamps, and the next sibling order, then
	// persists the node. The parent, when set, must exist in the same
	// project.
	Create(ctx context.Context, n *domain.GoalNode) error
	GetByID(ctx context.Context, id string) (*domain.GoalNode, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.GoalNode, error)

	// UpdateFields applies a partial update and returns the updated
	// node, or ErrNotFound when the id is unknown.
	UpdateFields(ctx context.Context, id string, patch NodePatch) (*domain.GoalNode, error)

	// SetStatus transitions a node's status, maintaining CompletedAt.
	// When the new status is completed and propagate is true, ancestors
	// whose children are now all complete transition too; the returned
	// slice holds their ids in the order they were updated.
	SetStatus(ctx context.Context, id string, status domain.NodeStatus, propagate bool) ([]string, error)

	// Move reparents a node (nil = make it a root) and appends it to
	// the new sibling group. Moves that would create a cycle or cross
	// projects are rejected.
	Move(ctx context.Context, id string, newParentID *string) error

	SetCollapsed(ctx context.Context, id string, collapsed bool) error

	// Delete removes the node and its whole subtree, one persistence
	// delete per descendant, leaf-first.
	Delete(ctx context.Context, id string) error

	// Repair nulls the parent of every node with a dangling or cyclic
	// parent pointer and reports how many repairs were made. Safe to
	// re-run; a clean project reports zero.
	Repair(ctx context.Context, projectID string) (int, error)

	// Snapshot loads the project's nodes and indexes them. The index
	// is a point-in-time view; mutations require a fresh snapshot.
	Snapshot(ctx context.Context, projectID string) (*tree.Index, error)
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project   *domain.Project
	NodeCount int
	// Repaired counts records whose unrecognized status or priority
	// fell back to a safe default.
	Repaired int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
