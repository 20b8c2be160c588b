package domain

import "time"

// Project is the flat container a goal tree hangs off. It carries no
// tree logic of its own; all structure lives in the nodes.
type Project struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayID returns a short identifier for display, truncating the
// UUID to 8 characters.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
