package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveProjectID turns user input into a project UUID. Exact ID
// wins, then a case-insensitive name match, then a unique ID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveNodeID turns user input into a node UUID. With a project in
// scope, title and ID-prefix matches are tried against the project's
// nodes; otherwise only an exact ID works.
func resolveNodeID(ctx context.Context, app *App, input, projectID string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("node is required")
	}

	if projectID == "" {
		if _, err := app.Nodes.GetByID(ctx, input); err != nil {
			return "", err
		}
		return input, nil
	}

	nodes, err := app.Nodes.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	for _, n := range nodes {
		if n.ID == input {
			return n.ID, nil
		}
	}
	for _, n := range nodes {
		if strings.EqualFold(n.Title, input) {
			return n.ID, nil
		}
	}

	var matches []string
	for _, n := range nodes {
		if strings.HasPrefix(n.ID, input) {
			matches = append(matches, n.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("node not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("node %q is ambiguous (%d matches)", input, len(matches))
	}
}
