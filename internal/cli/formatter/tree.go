package formatter

import (
	"fmt"
	"strings"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status domain.NodeStatus
	// Collapsed marks a node whose subtree is hidden; HiddenCount is
	// the number of hidden descendants shown next to the marker.
	Collapsed   bool
	HiddenCount int
	Badge       string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Completed items get a green ✔ prefix and dim out,
// in-progress items get an amber ▶ prefix, blocked items a red ■, and
// badges are right-aligned past the widest line.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		statusPrefix := ""
		switch item.Status {
		case domain.StatusCompleted:
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusInProgress:
			statusPrefix = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case domain.StatusBlocked:
			statusPrefix = StyleRed.Render("■ ")
		}

		if item.Collapsed {
			marker := "▸"
			if item.HiddenCount > 0 {
				marker = fmt.Sprintf("▸ (%d)", item.HiddenCount)
			}
			title += " " + Dim(marker)
		}

		lines[idx].content = prefix + statusPrefix + title
		if item.Badge != "" {
			lines[idx].badge = item.Badge
		}

		if w := lipgloss.Width(lines[idx].content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
