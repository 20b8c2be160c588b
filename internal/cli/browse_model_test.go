package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/repository"
	"github.com/arborcli/arbor/internal/service"
	"github.com/arborcli/arbor/internal/teatest"
	"github.com/arborcli/arbor/internal/testutil"
)

func newBrowseTestApp(t *testing.T) (*App, *domain.Project) {
	t.Helper()
	database := testutil.NewTestDB(t)
	project := testutil.NewTestProject("Thesis")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(context.Background(), project))

	app := &App{
		Projects: service.NewProjectService(repository.NewSQLiteProjectRepo(database)),
		Nodes:    service.NewNodeService(repository.NewSQLiteNodeRepo(database)),
	}
	return app, project
}

func addNode(t *testing.T, app *App, projectID, title string, parentID *string) *domain.GoalNode {
	t.Helper()
	n := &domain.GoalNode{ProjectID: projectID, Title: title, ParentID: parentID}
	require.NoError(t, app.Nodes.Create(context.Background(), n))
	return n
}

func TestBrowseModel_LoadsAndRendersTree(t *testing.T) {
	app, project := newBrowseTestApp(t)
	root := addNode(t, app, project.ID, "Write thesis", nil)
	addNode(t, app, project.ID, "Chapter 1", &root.ID)

	d := teatest.New(t, newBrowseModel(app, project.ID, project.Name))
	d.DrainInit()

	view := d.View()
	assert.Contains(t, view, "Write thesis")
	assert.Contains(t, view, "Chapter 1")
}

func TestBrowseModel_CursorMovement(t *testing.T) {
	app, project := newBrowseTestApp(t)
	addNode(t, app, project.ID, "First", nil)
	addNode(t, app, project.ID, "Second", nil)

	d := teatest.New(t, newBrowseModel(app, project.ID, project.Name))
	d.DrainInit()

	m := d.Model.(*browseModel)
	assert.Equal(t, 0, m.cursor)

	d.PressDown()
	assert.Equal(t, 1, m.cursor)
	d.PressDown()
	assert.Equal(t, 1, m.cursor, "cursor stops at the last row")
	d.PressUp()
	assert.Equal(t, 0, m.cursor)
}

func TestBrowseModel_SpaceCompletesAndCascades(t *testing.T) {
	app, project := newBrowseTestApp(t)
	root := addNode(t, app, project.ID, "Root", nil)
	addNode(t, app, project.ID, "Only child", &root.ID)

	d := teatest.New(t, newBrowseModel(app, project.ID, project.Name))
	d.DrainInit()

	// Move to the child and complete it; the root completes too.
	d.PressDown()
	d.PressKey(' ')

	got, err := app.Nodes.GetByID(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Contains(t, d.View(), "✓")
}

func TestBrowseModel_EnterFoldsSubtree(t *testing.T) {
	app, project := newBrowseTestApp(t)
	root := addNode(t, app, project.ID, "Root", nil)
	addNode(t, app, project.ID, "Hidden child", &root.ID)

	d := teatest.New(t, newBrowseModel(app, project.ID, project.Name))
	d.DrainInit()
	assert.Contains(t, d.View(), "Hidden child")

	d.PressEnter()
	assert.NotContains(t, d.View(), "Hidden child")

	got, err := app.Nodes.GetByID(context.Background(), root.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCollapsed, "fold state persists")

	d.PressEnter()
	assert.Contains(t, d.View(), "Hidden child")
}

func TestBrowseModel_DeleteRemovesSubtree(t *testing.T) {
	app, project := newBrowseTestApp(t)
	root := addNode(t, app, project.ID, "Doomed", nil)
	addNode(t, app, project.ID, "Child", &root.ID)
	addNode(t, app, project.ID, "Keeper", nil)

	d := teatest.New(t, newBrowseModel(app, project.ID, project.Name))
	d.DrainInit()

	d.PressKey('x')

	view := d.View()
	assert.NotContains(t, view, "Doomed")
	assert.NotContains(t, view, "Child")
	assert.Contains(t, view, "Keeper")
}

func TestBrowseModel_QuitKey(t *testing.T) {
	app, project := newBrowseTestApp(t)
	addNode(t, app, project.ID, "Node", nil)

	d := teatest.New(t, newBrowseModel(app, project.ID, project.Name))
	d.DrainInit()

	d.PressKey('q')
	assert.True(t, d.Quitting)
}
