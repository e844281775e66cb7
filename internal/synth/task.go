package synth

import (
	"context"
	"database/sql"

	"github.com/rowcheck/rowcheck/internal/model"
	"github.com/rowcheck/rowcheck/internal/rdbms"
)

// SynthesizeTask is the full spec.md §4.2 operation: describe
// baseSQL's columns on SRC, then build the paired checksum queries.
// It is called synchronously by the Task Planner, once per task,
// using a single borrowed SRC connection.
func SynthesizeTask(ctx context.Context, srcConn *sql.DB, key model.TaskKey, baseSQL string, schemaMap model.SchemaMap) (model.CheckTask, error) {
	cols, err := rdbms.DescribeColumns(ctx, srcConn, baseSQL)
	if err != nil {
		return model.CheckTask{}, newError(DescribeFailed, err)
	}

	srcSQL, tgtSQL, err := BuildQueries(cols, baseSQL, schemaMap)
	if err != nil {
		return model.CheckTask{}, err
	}

	return model.CheckTask{Key: key, SrcSQL: srcSQL, TgtSQL: tgtSQL}, nil
}
