package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arborcli/arbor/internal/db"
	"github.com/arborcli/arbor/internal/domain"
)

// dateLayout is the storage format for date-only columns.
const dateLayout = "2006-01-02"

// goalNodeColumns is the canonical SELECT column list for goal_nodes.
const goalNodeColumns = `id, project_id, parent_id, title, description, notes,
		status, priority, estimated_hours, due_date, order_index, is_collapsed,
		categories, completed_at, created_at, updated_at`

// SQLiteNodeRepo implements NodeRepo over a SQLite database.
type SQLiteNodeRepo struct {
	db db.DBTX
}

// NewSQLiteNodeRepo creates a new SQLiteNodeRepo. The handle may be a
// *sql.DB or a *sql.Tx.
func NewSQLiteNodeRepo(dbtx db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{db: dbtx}
}

func (r *SQLiteNodeRepo) Create(ctx context.Context, n *domain.GoalNode) error {
	categories, err := categoriesToValue(n.Categories)
	if err != nil {
		return err
	}
	query := `INSERT INTO goal_nodes (id, project_id, parent_id, title, description, notes,
		status, priority, estimated_hours, due_date, order_index, is_collapsed,
		categories, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		n.ID,
		n.ProjectID,
		n.ParentID, // *string: nil becomes SQL NULL
		n.Title,
		nullableStrToValue(n.Description),
		nullableStrToValue(n.Notes),
		string(n.Status),
		string(n.Priority),
		nullableFloatToValue(n.EstimatedHours),
		nullableTimeToString(n.DueDate, dateLayout),
		n.OrderIndex,
		boolToInt(n.IsCollapsed),
		categories,
		nullableTimeToString(n.CompletedAt, time.RFC3339),
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting goal node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, id string) (*domain.GoalNode, error) {
	query := `SELECT ` + goalNodeColumns + ` FROM goal_nodes WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("getting goal node: %w", err)
	}
	defer rows.Close()

	nodes, err := r.scanNodes(rows)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("goal node: %w", ErrNotFound)
	}
	return nodes[0], nil
}

func (r *SQLiteNodeRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.GoalNode, error) {
	query := `SELECT ` + goalNodeColumns + ` FROM goal_nodes
		WHERE project_id = ? ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing goal nodes by project: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteNodeRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.GoalNode, error) {
	query := `SELECT ` + goalNodeColumns + ` FROM goal_nodes
		WHERE parent_id = ? ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child goal nodes: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteNodeRepo) ListRoots(ctx context.Context, projectID string) ([]*domain.GoalNode, error) {
	query := `SELECT ` + goalNodeColumns + ` FROM goal_nodes
		WHERE project_id = ? AND parent_id IS NULL ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing root goal nodes: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteNodeRepo) Update(ctx context.Context, n *domain.GoalNode) error {
	categories, err := categoriesToValue(n.Categories)
	if err != nil {
		return err
	}
	query := `UPDATE goal_nodes SET parent_id = ?, title = ?, description = ?, notes = ?,
		status = ?, priority = ?, estimated_hours = ?, due_date = ?, order_index = ?,
		is_collapsed = ?, categories = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		n.ParentID,
		n.Title,
		nullableStrToValue(n.Description),
		nullableStrToValue(n.Notes),
		string(n.Status),
		string(n.Priority),
		nullableFloatToValue(n.EstimatedHours),
		nullableTimeToString(n.DueDate, dateLayout),
		n.OrderIndex,
		boolToInt(n.IsCollapsed),
		categories,
		nullableTimeToString(n.CompletedAt, time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal node: %w", err)
	}
	return nil
}

// Delete removes a single node. The service layer owns subtree
// cascades and calls this once per descendant, leaf-first.
func (r *SQLiteNodeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goal_nodes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting goal node: %w", err)
	}
	return nil
}

// scanNodes scans goal nodes from *sql.Rows.
func (r *SQLiteNodeRepo) scanNodes(rows *sql.Rows) ([]*domain.GoalNode, error) {
	var nodes []*domain.GoalNode
	for rows.Next() {
		var n domain.GoalNode
		var statusStr, priorityStr, createdAtStr, updatedAtStr string
		var parentID, description, notes, dueDateStr, categoriesStr, completedAtStr sql.NullString
		var estimatedHours sql.NullFloat64
		var isCollapsedInt int

		err := rows.Scan(
			&n.ID, &n.ProjectID, &parentID, &n.Title, &description, &notes,
			&statusStr, &priorityStr, &estimatedHours, &dueDateStr, &n.OrderIndex,
			&isCollapsedInt, &categoriesStr, &completedAtStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning goal node row: %w", err)
		}

		n.Status = domain.NodeStatus(statusStr)
		n.Priority = domain.Priority(priorityStr)
		n.IsCollapsed = intToBool(isCollapsedInt)
		n.Categories = parseCategories(categoriesStr)

		if parentID.Valid {
			n.ParentID = &parentID.String
		}
		if description.Valid {
			n.Description = &description.String
		}
		if notes.Valid {
			n.Notes = &notes.String
		}
		if estimatedHours.Valid {
			v := estimatedHours.Float64
			n.EstimatedHours = &v
		}
		n.DueDate = parseNullableTime(dueDateStr, dateLayout)
		n.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)

		var parseErr error
		if n.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr); parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		if n.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr); parseErr != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
		}

		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goal nodes: %w", err)
	}
	return nodes, nil
}
