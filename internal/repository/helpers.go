package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the
// given layout. NULL, empty, and unparseable values all map to nil.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a SQLite-storable value,
// nil becoming SQL NULL.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// nullableStrToValue converts a *string to a SQLite-storable value.
func nullableStrToValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// nullableFloatToValue converts a *float64 to a SQLite-storable value.
func nullableFloatToValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// categoriesToValue serializes a categories map to JSON text, nil or
// empty maps becoming SQL NULL.
func categoriesToValue(m map[string]string) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding categories: %w", err)
	}
	return string(raw), nil
}

// parseCategories deserializes the categories JSON column. Corrupt
// values map to nil rather than failing the whole scan.
func parseCategories(s sql.NullString) map[string]string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil
	}
	return m
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
