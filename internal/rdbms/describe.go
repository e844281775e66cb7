package rdbms

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rowcheck/rowcheck/internal/canon"
	"github.com/rowcheck/rowcheck/internal/model"
)

// DescribeColumns is the "describe-columns facility" spec.md §4.2
// step 1 calls for: it obtains the ordered column list of base_sql,
// with name and kind, without executing the query's full result set.
// The base query is wrapped in a zero-row probe so *sql.Rows still
// reports accurate column metadata from the driver without fetching
// any data.
func DescribeColumns(ctx context.Context, db *sql.DB, baseSQL string) ([]model.ColumnDescriptor, error) {
	probe := fmt.Sprintf("SELECT * FROM (%s) WHERE 1=0", baseSQL)
	rows, err := db.QueryContext(ctx, probe)
	if err != nil {
		return nil, fmt.Errorf("rdbms: describe probe failed: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("rdbms: reading column types: %w", err)
	}

	descs := make([]model.ColumnDescriptor, len(types))
	for i, ct := range types {
		descs[i] = model.ColumnDescriptor{
			Name: ct.Name(),
			Kind: canon.ClassifyOracleType(ct.DatabaseTypeName()),
		}
	}
	return descs, rows.Err()
}
