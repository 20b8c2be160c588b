package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/repository"
	"github.com/arborcli/arbor/internal/testutil"
	"github.com/arborcli/arbor/internal/tree"
)

// errInjected is returned by failingNodeRepo once its budget runs out.
var errInjected = errors.New("injected failure")

// failingNodeRepo wraps a NodeRepo and fails every Update after the
// first updatesBeforeFail calls. Used to exercise partial-failure
// behavior in the completion cascade.
type failingNodeRepo struct {
	repository.NodeRepo
	updatesBeforeFail int

	updates int
}

func (f *failingNodeRepo) Update(ctx context.Context, n *domain.GoalNode) error {
	f.updates++
	if f.updates > f.updatesBeforeFail {
		return errInjected
	}
	return f.NodeRepo.Update(ctx, n)
}

func newNodeServiceTest(t *testing.T) (NodeService, *domain.Project) {
	t.Helper()
	database := testutil.NewTestDB(t)
	project := testutil.NewTestProject("Thesis")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(context.Background(), project))
	return NewNodeService(repository.NewSQLiteNodeRepo(database)), project
}

func mustCreate(t *testing.T, svc NodeService, n *domain.GoalNode) *domain.GoalNode {
	t.Helper()
	require.NoError(t, svc.Create(context.Background(), n))
	return n
}

func childOf(project *domain.Project, title string, parent *domain.GoalNode) *domain.GoalNode {
	n := &domain.GoalNode{ProjectID: project.ID, Title: title}
	if parent != nil {
		n.ParentID = &parent.ID
	}
	return n
}

func TestNodeService_CreateAssignsDefaults(t *testing.T) {
	svc, project := newNodeServiceTest(t)

	n := mustCreate(t, svc, childOf(project, "Outline", nil))

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, domain.StatusOpen, n.Status)
	assert.Equal(t, domain.PriorityMedium, n.Priority)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNodeService_CreateAppendsSiblingOrder(t *testing.T) {
	svc, project := newNodeServiceTest(t)

	first := mustCreate(t, svc, childOf(project, "First", nil))
	second := mustCreate(t, svc, childOf(project, "Second", nil))
	child := mustCreate(t, svc, childOf(project, "Child", first))

	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)
	assert.Equal(t, 0, child.OrderIndex, "child starts its own sibling group")
}

func TestNodeService_CreateRejectsCrossProjectParent(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	svc := NewNodeService(repository.NewSQLiteNodeRepo(database))

	p1 := testutil.NewTestProject("One")
	p2 := testutil.NewTestProject("Two")
	require.NoError(t, projectRepo.Create(ctx, p1))
	require.NoError(t, projectRepo.Create(ctx, p2))

	parent := mustCreate(t, svc, childOf(p1, "Parent", nil))

	orphan := &domain.GoalNode{ProjectID: p2.ID, Title: "Orphan", ParentID: &parent.ID}
	err := svc.Create(ctx, orphan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different project")
}

func TestNodeService_UpdateFields(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)

	n := mustCreate(t, svc, childOf(project, "Draft", nil))

	title := "Draft v2"
	desc := "rework the intro"
	hours := 3.5
	updated, err := svc.UpdateFields(ctx, n.ID, NodePatch{
		Title:          &title,
		Description:    &desc,
		EstimatedHours: &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, "Draft v2", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "rework the intro", *updated.Description)
	require.NotNil(t, updated.EstimatedHours)

	cleared, err := svc.UpdateFields(ctx, n.ID, NodePatch{
		ClearDescription:    true,
		ClearEstimatedHours: true,
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Nil(t, cleared.EstimatedHours)
	assert.Equal(t, "Draft v2", cleared.Title, "unset fields stay put")
}

func TestNodeService_UpdateFieldsRejectsNegativeHours(t *testing.T) {
	svc, project := newNodeServiceTest(t)
	n := mustCreate(t, svc, childOf(project, "Draft", nil))

	neg := -2.0
	_, err := svc.UpdateFields(context.Background(), n.ID, NodePatch{EstimatedHours: &neg})
	assert.Error(t, err)
}

func TestNodeService_UpdateFieldsUnknownID(t *testing.T) {
	svc, _ := newNodeServiceTest(t)
	_, err := svc.UpdateFields(context.Background(), "nope", NodePatch{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNodeService_SetStatusMaintainsCompletedAt(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)
	n := mustCreate(t, svc, childOf(project, "Task", nil))

	_, err := svc.SetStatus(ctx, n.ID, domain.StatusCompleted, true)
	require.NoError(t, err)
	got, err := svc.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = svc.SetStatus(ctx, n.ID, domain.StatusOpen, true)
	require.NoError(t, err)
	got, err = svc.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
	assert.Nil(t, got.CompletedAt, "reopening clears the completion stamp")
}

// Three leaves under one root: progress climbs 33, 67, and the last
// completion rolls up to the root.
func TestNodeService_ThreeLeafCompletion(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)

	root := mustCreate(t, svc, childOf(project, "Launch", nil))
	a := mustCreate(t, svc, childOf(project, "A", root))
	b := mustCreate(t, svc, childOf(project, "B", root))
	c := mustCreate(t, svc, childOf(project, "C", root))

	progress := func() tree.Progress {
		x, err := svc.Snapshot(ctx, project.ID)
		require.NoError(t, err)
		return tree.NodeProgress(x, root.ID)
	}

	cascaded, err := svc.SetStatus(ctx, a.ID, domain.StatusCompleted, true)
	require.NoError(t, err)
	assert.Empty(t, cascaded)
	assert.Equal(t, 33, progress().Percentage)

	cascaded, err = svc.SetStatus(ctx, b.ID, domain.StatusCompleted, true)
	require.NoError(t, err)
	assert.Empty(t, cascaded)
	assert.Equal(t, 67, progress().Percentage)

	cascaded, err = svc.SetStatus(ctx, c.ID, domain.StatusCompleted, true)
	require.NoError(t, err)
	assert.Equal(t, []string{root.ID}, cascaded)
	assert.Equal(t, 100, progress().Percentage)

	got, err := svc.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestNodeService_SetStatusNoPropagate(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)

	root := mustCreate(t, svc, childOf(project, "Root", nil))
	leaf := mustCreate(t, svc, childOf(project, "Leaf", root))

	cascaded, err := svc.SetStatus(ctx, leaf.ID, domain.StatusCompleted, false)
	require.NoError(t, err)
	assert.Empty(t, cascaded)

	got, err := svc.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status, "opt-out leaves the parent alone")
}

func TestNodeService_CompletionCascadesThroughChain(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)

	root := mustCreate(t, svc, childOf(project, "Root", nil))
	mid := mustCreate(t, svc, childOf(project, "Mid", root))
	leaf := mustCreate(t, svc, childOf(project, "Leaf", mid))

	cascaded, err := svc.SetStatus(ctx, leaf.ID, domain.StatusCompleted, true)
	require.NoError(t, err)
	assert.Equal(t, []string{mid.ID, root.ID}, cascaded, "nearest ancestor first")
}

func TestNodeService_CascadePartialFailure(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	project := testutil.NewTestProject("Flaky")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, project))

	failing := &failingNodeRepo{
		NodeRepo:          repository.NewSQLiteNodeRepo(database),
		updatesBeforeFail: 2,
	}
	svc := NewNodeService(failing)

	root := mustCreate(t, svc, childOf(project, "Root", nil))
	mid := mustCreate(t, svc, childOf(project, "Mid", root))
	leaf := mustCreate(t, svc, childOf(project, "Leaf", mid))

	// Update 1: the leaf itself. Update 2: mid. Update 3 (root) fails.
	cascaded, err := svc.SetStatus(ctx, leaf.ID, domain.StatusCompleted, true)
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, []string{mid.ID}, cascaded, "ancestors updated before the failure are reported")

	got, err := svc.GetByID(ctx, mid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	got, err = svc.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
}

func TestNodeService_MoveRejectsCycles(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)

	root := mustCreate(t, svc, childOf(project, "Root", nil))
	child := mustCreate(t, svc, childOf(project, "Child", root))
	grandchild := mustCreate(t, svc, childOf(project, "Grandchild", child))

	err := svc.Move(ctx, root.ID, &grandchild.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descendant")

	err = svc.Move(ctx, root.ID, &root.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own parent")
}

func TestNodeService_MoveReparentsAndAppends(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)

	a := mustCreate(t, svc, childOf(project, "A", nil))
	b := mustCreate(t, svc, childOf(project, "B", nil))
	mustCreate(t, svc, childOf(project, "B1", b))

	require.NoError(t, svc.Move(ctx, a.ID, &b.ID))

	got, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, b.ID, *got.ParentID)
	assert.Equal(t, 1, got.OrderIndex, "appended after the existing child")

	// Back to root level.
	require.NoError(t, svc.Move(ctx, a.ID, nil))
	got, err = svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestNodeService_DeleteRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)

	root := mustCreate(t, svc, childOf(project, "Root", nil))
	child := mustCreate(t, svc, childOf(project, "Child", root))
	grandchild := mustCreate(t, svc, childOf(project, "Grandchild", child))
	sibling := mustCreate(t, svc, childOf(project, "Sibling", nil))

	require.NoError(t, svc.Delete(ctx, root.ID))

	for _, id := range []string{root.ID, child.ID, grandchild.ID} {
		_, err := svc.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	_, err := svc.GetByID(ctx, sibling.ID)
	assert.NoError(t, err, "unrelated nodes survive")
}

func TestNodeService_RepairBreaksParentCycles(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	project := testutil.NewTestProject("Broken")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, project))
	nodeRepo := repository.NewSQLiteNodeRepo(database)
	svc := NewNodeService(nodeRepo)

	ok := mustCreate(t, svc, childOf(project, "Fine", nil))
	a := mustCreate(t, svc, childOf(project, "A", nil))
	b := mustCreate(t, svc, childOf(project, "B", a))

	// Close the loop straight through the repository: A under B.
	a.ParentID = &b.ID
	require.NoError(t, nodeRepo.Update(ctx, a))

	repaired, err := svc.Repair(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired, "both cycle members are re-rooted")

	for _, id := range []string{a.ID, b.ID} {
		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got.ParentID)
	}

	// Clean run is a no-op.
	repaired, err = svc.Repair(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)

	got, err := svc.GetByID(ctx, ok.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestNodeService_SetCollapsed(t *testing.T) {
	ctx := context.Background()
	svc, project := newNodeServiceTest(t)
	n := mustCreate(t, svc, childOf(project, "Foldable", nil))

	require.NoError(t, svc.SetCollapsed(ctx, n.ID, true))
	got, err := svc.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCollapsed)

	require.NoError(t, svc.SetCollapsed(ctx, n.ID, false))
	got, err = svc.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCollapsed)
}
