package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arborcli/arbor/internal/cli/formatter"
	"github.com/arborcli/arbor/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// arborHuhTheme returns a custom huh theme using the Gruvbox palette.
func arborHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// newAddNodeForm builds the interactive form used by "node add" when
// no title flag was given. Hours are collected as text; the caller
// parses them after the form completes.
func newAddNodeForm(title, priority, due, hours *string) *huh.Form {
	priorityOptions := []huh.Option[string]{
		huh.NewOption("Low", string(domain.PriorityLow)),
		huh.NewOption("Medium", string(domain.PriorityMedium)),
		huh.NewOption("High", string(domain.PriorityHigh)),
		huh.NewOption("Critical", string(domain.PriorityCritical)),
	}
	if *priority == "" {
		*priority = string(domain.PriorityMedium)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Draft chapter outline").
				Value(title).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(priority),
			huh.NewInput().
				Title("Due Date (YYYY-MM-DD, blank for none)").
				Placeholder("2026-09-30").
				Value(due).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Estimated Hours (blank for none)").
				Placeholder("4").
				Value(hours).
				Validate(validateOptionalHours),
		),
	).WithTheme(arborHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalHours(s string) error {
	if s == "" {
		return nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}
