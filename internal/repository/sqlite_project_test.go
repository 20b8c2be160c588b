package repository

import (
	"context"
	"testing"

	"github.com/arborcli/arbor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CRUD(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis", testutil.WithProjectDescription("PhD writing plan"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thesis", fetched.Name)
	require.NotNil(t, fetched.Description)
	assert.Equal(t, "PhD writing plan", *fetched.Description)

	fetched.Name = "Dissertation"
	require.NoError(t, repo.Update(ctx, fetched))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dissertation", list[0].Name)

	require.NoError(t, repo.Delete(ctx, proj.ID))
	_, err = repo.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_DeleteCascadesToNodes(t *testing.T) {
	database := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(database)
	nodeRepo := NewSQLiteNodeRepo(database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Doomed")
	require.NoError(t, projRepo.Create(ctx, proj))
	node := testutil.NewTestNode(proj.ID, "Orphan-to-be")
	require.NoError(t, nodeRepo.Create(ctx, node))

	require.NoError(t, projRepo.Delete(ctx, proj.ID))

	_, err := nodeRepo.GetByID(ctx, node.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
