package formatter

import (
	"fmt"
	"strings"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the lipgloss style for the given node status.
func StatusColor(status domain.NodeStatus) lipgloss.Style {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen
	case domain.StatusInProgress:
		return StyleYellow
	case domain.StatusBlocked:
		return StyleRed
	default:
		return StyleBlue
	}
}

// StatusPill returns a colored status indicator such as "● In Progress".
func StatusPill(status domain.NodeStatus) string {
	switch status {
	case domain.StatusOpen:
		return StyleBlue.Render("○ Open")
	case domain.StatusInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.StatusBlocked:
		return StyleRed.Render("■ Blocked")
	default:
		return StyleDim.Render(string(status))
	}
}

// PriorityBadge returns a colored priority label.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("!! critical")
	case domain.PriorityHigh:
		return StyleYellow.Render("! high")
	case domain.PriorityLow:
		return StyleDim.Render("low")
	default:
		return StyleFg.Render("medium")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
