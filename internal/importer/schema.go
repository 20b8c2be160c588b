// Package importer converts external project files into domain
// records. Validation rejects structural problems (missing refs,
// malformed dates); unrecognized enum values are repaired to safe
// defaults instead, so one bad record never sinks a whole import.
package importer

// ImportSchema is the top-level shape of an arbor project file.
type ImportSchema struct {
	Project ProjectImport `json:"project"`
	Nodes   []NodeImport  `json:"nodes"`
}

type ProjectImport struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// NodeImport is one node record. Refs are file-local identifiers used
// only to express parent links; they are replaced by UUIDs during
// conversion. A parent_ref must point at a node defined earlier in the
// file, which rules out forward references and cycles by construction.
type NodeImport struct {
	Ref            string            `json:"ref"`
	ParentRef      *string           `json:"parent_ref,omitempty"`
	Title          string            `json:"title"`
	Description    *string           `json:"description,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	Status         string            `json:"status,omitempty"`
	Priority       string            `json:"priority,omitempty"`
	EstimatedHours *float64          `json:"estimated_hours,omitempty"`
	DueDate        *string           `json:"due_date,omitempty"`
	Collapsed      bool              `json:"collapsed,omitempty"`
	Categories     map[string]string `json:"categories,omitempty"`
}
