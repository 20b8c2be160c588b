// Package export writes a project out as a portable JSON file or as a
// rendered SVG chart.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/importer"
	"github.com/arborcli/arbor/internal/tree"
)

// WriteJSON writes the project in the same schema the importer reads,
// so an exported file can be imported back. Nodes are emitted pre-order
// (parents before children) with node ids as refs; the importer assigns
// fresh ids on the way back in.
func WriteJSON(w io.Writer, project *domain.Project, x *tree.Index) error {
	schema := importer.ImportSchema{
		Project: importer.ProjectImport{
			Name:        project.Name,
			Description: project.Description,
		},
	}

	for _, root := range x.Roots() {
		// A root can carry a dangling parent pointer; drop it so the
		// exported file always re-imports cleanly.
		rec := toNodeImport(root)
		rec.ParentRef = nil
		schema.Nodes = append(schema.Nodes, rec)
		for _, n := range x.Descendants(root.ID) {
			schema.Nodes = append(schema.Nodes, toNodeImport(n))
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encoding project %q: %w", project.Name, err)
	}
	return nil
}

func toNodeImport(n *domain.GoalNode) importer.NodeImport {
	out := importer.NodeImport{
		Ref:            n.ID,
		ParentRef:      n.ParentID,
		Title:          n.Title,
		Description:    n.Description,
		Notes:          n.Notes,
		Status:         string(n.Status),
		Priority:       string(n.Priority),
		EstimatedHours: n.EstimatedHours,
		Collapsed:      n.IsCollapsed,
		Categories:     n.Categories,
	}
	if n.DueDate != nil {
		d := n.DueDate.Format("2006-01-02")
		out.DueDate = &d
	}
	return out
}
