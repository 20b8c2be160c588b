package importer

import (
	"fmt"
	"time"
)

// ValidateImportSchema checks the schema for structural errors before
// conversion, returning every problem found. Unknown status and
// priority strings are not errors; Convert repairs them to defaults.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Project.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}

	seen := make(map[string]bool, len(schema.Nodes))
	for i, n := range schema.Nodes {
		prefix := fmt.Sprintf("nodes[%d]", i)

		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("%s: ref is required", prefix))
		} else if seen[n.Ref] {
			errs = append(errs, fmt.Errorf("%s: duplicate ref %q", prefix, n.Ref))
		}

		if n.Title == "" {
			errs = append(errs, fmt.Errorf("%s: title is required", prefix))
		}

		if n.ParentRef != nil && *n.ParentRef != "" && !seen[*n.ParentRef] {
			errs = append(errs, fmt.Errorf("%s: parent_ref %q must reference an earlier node", prefix, *n.ParentRef))
		}

		if n.DueDate != nil && *n.DueDate != "" {
			if _, err := time.Parse("2006-01-02", *n.DueDate); err != nil {
				errs = append(errs, fmt.Errorf("%s: due_date %q is not YYYY-MM-DD", prefix, *n.DueDate))
			}
		}

		if n.EstimatedHours != nil && *n.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("%s: estimated_hours must be non-negative", prefix))
		}

		if n.Ref != "" {
			seen[n.Ref] = true
		}
	}

	return errs
}
