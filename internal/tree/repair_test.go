package tree

import (
	"testing"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidParents_CleanTree(t *testing.T) {
	nodes := []*domain.GoalNode{
		node("root", "", 0),
		node("child", "root", 0),
	}
	assert.Empty(t, InvalidParents(nodes))
}

func TestInvalidParents_Dangling(t *testing.T) {
	nodes := []*domain.GoalNode{
		node("root", "", 0),
		node("orphan", "gone", 0),
	}
	assert.Equal(t, []string{"orphan"}, InvalidParents(nodes))
}

func TestInvalidParents_CrossProjectParent(t *testing.T) {
	other := node("alien", "", 0)
	other.ProjectID = "other-project"
	stray := node("stray", "alien", 0)

	got := InvalidParents([]*domain.GoalNode{other, stray})
	assert.Equal(t, []string{"stray"}, got)
}

func TestInvalidParents_CycleTerminatesAndRepairs(t *testing.T) {
	a := node("a", "b", 0)
	b := node("b", "a", 0)
	nodes := []*domain.GoalNode{a, b}

	invalid := InvalidParents(nodes)
	require.NotEmpty(t, invalid, "a cycle must be detected")

	// Apply the repair the way the service does: null the parents.
	for _, id := range invalid {
		for _, n := range nodes {
			if n.ID == id {
				n.ParentID = nil
			}
		}
	}

	// At least one of a/b is now a root, and a second pass is clean.
	assert.True(t, a.ParentID == nil || b.ParentID == nil)
	assert.Empty(t, InvalidParents(nodes), "repair must be idempotent")
}

func TestInvalidParents_LongCycle(t *testing.T) {
	nodes := []*domain.GoalNode{
		node("a", "c", 0),
		node("b", "a", 0),
		node("c", "b", 0),
		node("outside", "", 0),
	}

	invalid := InvalidParents(nodes)
	assert.Len(t, invalid, 3, "every member of the cycle is its own ancestor")
	assert.NotContains(t, invalid, "outside")
}
