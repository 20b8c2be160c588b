package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arborcli/arbor/internal/tree"
)

func TestRenderProgressBar_Fill(t *testing.T) {
	out := RenderProgressBar(50, 10)
	assert.Equal(t, 5, strings.Count(out, filledBlock))
	assert.Equal(t, 5, strings.Count(out, emptyBlock))
	assert.Contains(t, out, "50%")
}

func TestRenderProgressBar_ClampsRange(t *testing.T) {
	assert.Contains(t, RenderProgressBar(-20, 8), "  0%")
	full := RenderProgressBar(250, 8)
	assert.Contains(t, full, "100%")
	assert.Equal(t, 8, strings.Count(full, filledBlock))
}

func TestProgressBadge(t *testing.T) {
	assert.Contains(t, ProgressBadge(tree.Progress{Completed: 2, Total: 3}), "2/3")
	assert.Contains(t, ProgressBadge(tree.Progress{}), "-")
}
