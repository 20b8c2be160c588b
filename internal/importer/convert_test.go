package importer

import (
	"testing"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_LinksParents(t *testing.T) {
	out, err := Convert(validSchema())
	require.NoError(t, err)

	require.Len(t, out.Nodes, 2)
	root, child := out.Nodes[0], out.Nodes[1]
	assert.Nil(t, root.ParentID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
	assert.Equal(t, out.Project.ID, root.ProjectID)
	assert.Equal(t, out.Project.ID, child.ProjectID)
}

func TestConvert_OrdersPerSiblingGroup(t *testing.T) {
	s := &ImportSchema{
		Project: ProjectImport{Name: "P"},
		Nodes: []NodeImport{
			{Ref: "r1", Title: "R1"},
			{Ref: "r1a", ParentRef: strPtr("r1"), Title: "A"},
			{Ref: "r1b", ParentRef: strPtr("r1"), Title: "B"},
			{Ref: "r2", Title: "R2"},
		},
	}
	out, err := Convert(s)
	require.NoError(t, err)

	orders := map[string]int{}
	for _, n := range out.Nodes {
		orders[n.Title] = n.OrderIndex
	}
	assert.Equal(t, 0, orders["R1"])
	assert.Equal(t, 1, orders["R2"], "roots count as one sibling group")
	assert.Equal(t, 0, orders["A"])
	assert.Equal(t, 1, orders["B"])
}

func TestConvert_RepairsUnknownEnums(t *testing.T) {
	s := validSchema()
	s.Nodes[0].Status = "donezo"
	s.Nodes[1].Priority = "urgent"

	out, err := Convert(s)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOpen, out.Nodes[0].Status)
	assert.Equal(t, domain.PriorityMedium, out.Nodes[1].Priority)
	assert.Equal(t, 2, out.Repaired)
}

func TestConvert_CompletedStatusSetsCompletedAt(t *testing.T) {
	s := validSchema()
	s.Nodes[1].Status = "completed"

	out, err := Convert(s)
	require.NoError(t, err)

	assert.Nil(t, out.Nodes[0].CompletedAt)
	assert.NotNil(t, out.Nodes[1].CompletedAt)
}

func TestConvert_ParsesOptionalFields(t *testing.T) {
	hours := 3.5
	s := validSchema()
	s.Nodes[1].DueDate = strPtr("2026-09-15")
	s.Nodes[1].EstimatedHours = &hours
	s.Nodes[1].Categories = map[string]string{"area": "writing"}
	s.Nodes[1].Collapsed = true

	out, err := Convert(s)
	require.NoError(t, err)

	n := out.Nodes[1]
	require.NotNil(t, n.DueDate)
	assert.Equal(t, "2026-09-15", n.DueDate.Format("2006-01-02"))
	assert.Equal(t, 3.5, *n.EstimatedHours)
	assert.Equal(t, "writing", n.Categories["area"])
	assert.True(t, n.IsCollapsed)
}
