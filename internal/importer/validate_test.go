package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{Name: "Imported"},
		Nodes: []NodeImport{
			{Ref: "root", Title: "Root"},
			{Ref: "child", ParentRef: strPtr("root"), Title: "Child"},
		},
	}
}

func TestValidate_CleanSchema(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validSchema()))
}

func TestValidate_MissingProjectName(t *testing.T) {
	s := validSchema()
	s.Project.Name = ""
	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "project.name")
}

func TestValidate_DuplicateRef(t *testing.T) {
	s := validSchema()
	s.Nodes = append(s.Nodes, NodeImport{Ref: "root", Title: "Again"})
	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate ref")
}

func TestValidate_ForwardParentRef(t *testing.T) {
	s := &ImportSchema{
		Project: ProjectImport{Name: "P"},
		Nodes: []NodeImport{
			{Ref: "child", ParentRef: strPtr("root"), Title: "Child"},
			{Ref: "root", Title: "Root"},
		},
	}
	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "earlier node")
}

func TestValidate_BadDateAndNegativeHours(t *testing.T) {
	neg := -1.0
	s := validSchema()
	s.Nodes[1].DueDate = strPtr("15-09-2026")
	s.Nodes[1].EstimatedHours = &neg
	errs := ValidateImportSchema(s)
	assert.Len(t, errs, 2)
}

func TestValidate_UnknownEnumsAreNotErrors(t *testing.T) {
	s := validSchema()
	s.Nodes[0].Status = "donezo"
	s.Nodes[0].Priority = "urgent"
	assert.Empty(t, ValidateImportSchema(s), "enum fallback happens in Convert, not here")
}
