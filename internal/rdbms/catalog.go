package rdbms

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QualifiedTable is a schema-qualified table name discovered in or
// confirmed against SRC's catalog.
type QualifiedTable struct {
	Schema string
	Table  string
}

func (t QualifiedTable) String() string {
	if t.Schema == "" {
		return t.Table
	}
	return t.Schema + "." + t.Table
}

// SchemaTables lists every table owned by schema, per spec.md §4.3
// step 1. Schema is matched case-insensitively against ALL_TABLES by
// ASCII-folding to upper case, matching Oracle's own catalog
// convention for unquoted identifiers.
func SchemaTables(ctx context.Context, db *sql.DB, schema string) ([]QualifiedTable, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT owner, table_name FROM all_tables WHERE owner = UPPER(:1)`,
		schema)
	if err != nil {
		return nil, fmt.Errorf("rdbms: listing tables for schema %q: %w", schema, err)
	}
	defer rows.Close()

	var out []QualifiedTable
	for rows.Next() {
		var owner, name string
		if err := rows.Scan(&owner, &name); err != nil {
			return nil, err
		}
		out = append(out, QualifiedTable{Schema: owner, Table: name})
	}
	return out, rows.Err()
}

// RowCounts queries ALL_TABLES.num_rows for the given tables, keyed
// by "SCHEMA.TABLE" upper-cased. A table absent from the result map
// was not found in the catalog (spec.md §4.3 step 3: appended in
// declaration order with a warning, rather than treated as fatal).
func RowCounts(ctx context.Context, db *sql.DB, tables []QualifiedTable) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	if len(tables) == 0 {
		return counts, nil
	}

	placeholders := make([]string, len(tables))
	args := make([]any, len(tables))
	for i, t := range tables {
		placeholders[i] = fmt.Sprintf(":%d", i+1)
		args[i] = strings.ToUpper(t.Schema + "." + t.Table)
	}

	query := fmt.Sprintf(
		`SELECT owner, table_name, num_rows FROM all_tables WHERE owner || '.' || table_name IN (%s)`,
		strings.Join(placeholders, ", "))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rdbms: querying table row counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, name string
		var numRows sql.NullInt64
		if err := rows.Scan(&owner, &name, &numRows); err != nil {
			return nil, err
		}
		if numRows.Valid {
			counts[strings.ToUpper(owner+"."+name)] = numRows.Int64
		}
	}
	return counts, rows.Err()
}
