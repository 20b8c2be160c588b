package formatter

import (
	"fmt"
	"strings"

	"github.com/arborcli/arbor/internal/tree"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgressBar renders a progress bar like [████░░░░] 45%.
// The bar is colored by percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 33 {
		style = StyleRed
	} else if pct < 66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), int(pct))
}

// ProgressBadge renders a compact leaf-count badge like "2/3".
// Zero-leaf subtrees render as a dimmed dash.
func ProgressBadge(p tree.Progress) string {
	if p.Total == 0 {
		return StyleDim.Render("-")
	}
	text := fmt.Sprintf("%d/%d", p.Completed, p.Total)
	if p.Completed == p.Total {
		return StyleGreen.Render(text)
	}
	return StyleBlue.Render(text)
}
