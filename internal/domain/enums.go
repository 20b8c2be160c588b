package domain

type NodeStatus string

const (
	StatusOpen       NodeStatus = "open"
	StatusInProgress NodeStatus = "in_progress"
	StatusCompleted  NodeStatus = "completed"
	StatusBlocked    NodeStatus = "blocked"
)

// ValidNodeStatuses is the canonical set of accepted status strings.
var ValidNodeStatuses = map[string]bool{
	"open": true, "in_progress": true, "completed": true, "blocked": true,
}

// ParseNodeStatus maps a raw string to a NodeStatus, falling back to
// StatusOpen for unrecognized values. Imports use this so a single bad
// record never rejects a whole file.
func ParseNodeStatus(s string) NodeStatus {
	if ValidNodeStatuses[s] {
		return NodeStatus(s)
	}
	return StatusOpen
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}

// ParsePriority maps a raw string to a Priority, falling back to
// PriorityMedium for unrecognized values.
func ParsePriority(s string) Priority {
	if ValidPriorities[s] {
		return Priority(s)
	}
	return PriorityMedium
}
