package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborcli/arbor/internal/db"
	"github.com/arborcli/arbor/internal/importer"
	"github.com/arborcli/arbor/internal/repository"
	"github.com/arborcli/arbor/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestImportService_ImportProject(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	svc := NewImportService(db.NewSQLiteUnitOfWork(database))

	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"project": {"name": "Imported"},
		"nodes": [
			{"ref": "root", "title": "Root"},
			{"ref": "leaf", "parent_ref": "root", "title": "Leaf", "status": "wat"}
		]
	}`), 0o644))

	result, err := svc.ImportProject(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Imported", result.Project.Name)
	assert.Equal(t, 2, result.NodeCount)
	assert.Equal(t, 1, result.Repaired, "unknown status falls back to open")

	nodes, err := repository.NewSQLiteNodeRepo(database).ListByProject(ctx, result.Project.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestImportService_InvalidSchemaRollsBack(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	svc := NewImportService(db.NewSQLiteUnitOfWork(database))

	schema := &importer.ImportSchema{
		Project: importer.ProjectImport{Name: "Bad"},
		Nodes: []importer.NodeImport{
			{Ref: "child", ParentRef: strPtr("ghost"), Title: "Child"},
		},
	}

	_, err := svc.ImportProjectFromSchema(ctx, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "earlier node")

	projects, err := repository.NewSQLiteProjectRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects, "nothing persisted")
}

func TestImportService_BadFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewImportService(db.NewSQLiteUnitOfWork(database))

	_, err := svc.ImportProject(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
