package sql

import (
	"database/sql"
	"fmt"

	"github.com/syssam/dialect"
)

// Column is the metadata of one result column: its name and the native
// type name reported by the driver.
type Column struct {
	Name         string
	DatabaseType string
}

// Result is the canonical shape of one statement execution: the ordered
// row records with per-cell parsing applied, the column metadata, and the
// exec counters for statements that return no rows. A Result is built per
// execution and never cached by this package.
type Result struct {
	Kind         Kind
	Columns      []Column
	Rows         []map[string]any
	LastInsertID int64
	RowsAffected int64
}

// Len returns the number of rows.
func (r *Result) Len() int { return len(r.Rows) }

// Empty reports whether the result holds no rows.
func (r *Result) Empty() bool { return len(r.Rows) == 0 }

// First returns the first row, or nil for an empty result.
func (r *Result) First() map[string]any {
	if len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0]
}

// ColumnNames returns the result column names in order.
func (r *Result) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// readRows drains a native result set eagerly into row records, applying
// the registry parser of each column's native type to non-null cells.
func readRows(rows *sql.Rows, reg *dialect.Registry) ([]Column, []map[string]any, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("dialect/sql: column types: %w", err)
	}
	columns := make([]Column, len(types))
	for i, t := range types {
		columns[i] = Column{Name: t.Name(), DatabaseType: t.DatabaseTypeName()}
	}
	var records []map[string]any
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("dialect/sql: scan row: %w", err)
		}
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			v := values[i]
			// Byte slices are scratch buffers owned by the driver.
			if b, ok := v.([]byte); ok {
				v = append([]byte(nil), b...)
			}
			parsed, err := reg.Parse(col.DatabaseType, v)
			if err != nil {
				return nil, nil, fmt.Errorf("dialect/sql: parse column %q (%s): %w", col.Name, col.DatabaseType, err)
			}
			record[col.Name] = parsed
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, records, nil
}
