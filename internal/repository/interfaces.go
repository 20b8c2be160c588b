package repository

import (
	"context"
	"errors"

	"github.com/arborcli/arbor/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// NodeRepo is the persistence collaborator for goal nodes. Delete is
// non-cascading; removing a whole subtree is the service layer's
// responsibility. No method assumes transactionality across calls.
type NodeRepo interface {
	Create(ctx context.Context, n *domain.GoalNode) error
	GetByID(ctx context.Context, id string) (*domain.GoalNode, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.GoalNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.GoalNode, error)
	ListRoots(ctx context.Context, projectID string) ([]*domain.GoalNode, error)
	Update(ctx context.Context, n *domain.GoalNode) error
	Delete(ctx context.Context, id string) error
}
