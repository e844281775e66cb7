// Package plan implements the Task Planner (spec.md §4.3, component
// C3): it expands declared schemas and explicit tables into a
// concrete, ordered list of check tasks, and synthesizes each one via
// internal/synth, isolating per-task synthesis failures instead of
// aborting the run.
package plan

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rowcheck/rowcheck/internal/errs"
	"github.com/rowcheck/rowcheck/internal/model"
	"github.com/rowcheck/rowcheck/internal/rdbms"
	"github.com/rowcheck/rowcheck/internal/synth"
)

// CustomSQL is a declared ad-hoc query from check_scope.custom_sqls,
// identified by a user-supplied label rather than a table name.
type CustomSQL struct {
	Label string
	SQL   string
}

// Scope is the fully-parsed check_scope section of the config
// (internal/config), handed to Plan unmodified.
type Scope struct {
	SchemaMapping map[string]string
	Schemas       []string
	Tables        []string
	ExcludeTables []string
	CustomSQLs    []CustomSQL
}

// Result is the planner's output: a materialized, ordered task list
// plus the synthesis errors collected along the way, keyed by the
// task they belong to. A non-empty Errors map does not mean planning
// failed — spec.md §7 requires synthesis failures to surface in the
// report rather than abort the run.
type Result struct {
	Tasks  []model.CheckTask
	Errors map[model.TaskKey]error
}

// Plan performs the full spec.md §4.3 sequence: expand schemas into
// tables, apply exclude patterns, order by descending SRC row count,
// then synthesize a CheckTask for every table and custom SQL in that
// order. All catalog and describe queries run over srcConn, a single
// borrowed SRC connection (internal/rdbms.OpenSRC).
func Plan(ctx context.Context, srcConn *sql.DB, scope Scope, log *zap.Logger) (Result, error) {
	names := expandTables(ctx, srcConn, scope, log)

	ordered := orderBySize(ctx, srcConn, names, log)

	schemaMap := model.NewSchemaMap(scope.SchemaMapping)
	result := Result{Errors: make(map[model.TaskKey]error)}

	for _, qt := range ordered {
		key := model.TableTaskKey(qt.Schema, qt.Table)
		baseSQL := fmt.Sprintf("SELECT * FROM %s.%s", qt.Schema, qt.Table)
		task, err := synth.SynthesizeTask(ctx, srcConn, key, baseSQL, schemaMap)
		if err != nil {
			log.Warn("task synthesis failed", zap.String("task", string(key)), zap.Error(err))
			result.Errors[key] = err
			continue
		}
		result.Tasks = append(result.Tasks, task)
	}

	for _, c := range scope.CustomSQLs {
		key := model.CustomTaskKey(c.Label)
		task, err := synth.SynthesizeTask(ctx, srcConn, key, c.SQL, schemaMap)
		if err != nil {
			log.Warn("custom task synthesis failed", zap.String("task", string(key)), zap.Error(err))
			result.Errors[key] = err
			continue
		}
		result.Tasks = append(result.Tasks, task)
	}

	return result, nil
}

// expandTables resolves scope.Schemas into concrete qualified tables
// via the SRC catalog, merges in scope.Tables verbatim (each must
// already be schema-qualified), deduplicates, and drops anything
// matching an exclude pattern. A catalog failure for one schema is a
// recoverable PlanError (spec.md §4.3 step 1, §7): it is logged and
// that schema contributes nothing, but expansion proceeds with the
// remaining schemas and the explicit table list rather than aborting
// planning.
func expandTables(ctx context.Context, srcConn *sql.DB, scope Scope, log *zap.Logger) []rdbms.QualifiedTable {
	seen := make(map[string]bool)
	var declared []rdbms.QualifiedTable
	add := func(t rdbms.QualifiedTable) {
		if key := t.Schema + "." + t.Table; !seen[key] {
			seen[key] = true
			declared = append(declared, t)
		}
	}

	for _, schema := range scope.Schemas {
		tables, err := rdbms.SchemaTables(ctx, srcConn, schema)
		if err != nil {
			planErr := errs.NewPlanError(schema, err)
			log.Warn("schema expansion failed, proceeding with explicit table list", zap.Error(planErr))
			continue
		}
		for _, t := range tables {
			add(t)
		}
	}

	for _, qualified := range scope.Tables {
		schema, name, ok := splitQualified(qualified)
		if !ok {
			log.Warn("skipping unqualified table entry", zap.String("table", qualified))
			continue
		}
		add(rdbms.QualifiedTable{Schema: schema, Table: name})
	}

	matcher := newExcludeMatcher(scope.ExcludeTables)
	out := make([]rdbms.QualifiedTable, 0, len(declared))
	for _, t := range declared {
		if matcher.Match(t.Schema + "." + t.Table) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// orderBySize sorts tables by descending SRC row count (largest
// first, spec.md §4.3 step 3) so the longest-running checksum queries
// start earliest in the dual executor's worker pools. Tables missing
// from the catalog row-count view, or for which the count query
// itself fails, keep their declaration-order position at the tail and
// log a warning rather than abort planning.
func orderBySize(ctx context.Context, srcConn *sql.DB, tables []rdbms.QualifiedTable, log *zap.Logger) []rdbms.QualifiedTable {
	counts, err := rdbms.RowCounts(ctx, srcConn, tables)
	if err != nil {
		log.Warn("row count lookup failed, falling back to declaration order", zap.Error(err))
		return tables
	}

	known := make([]rdbms.QualifiedTable, 0, len(tables))
	unknown := make([]rdbms.QualifiedTable, 0)
	for _, t := range tables {
		if _, ok := counts[strings.ToUpper(t.Schema+"."+t.Table)]; ok {
			known = append(known, t)
			continue
		}
		log.Warn("no row count available, ordering table last", zap.String("table", t.Schema+"."+t.Table))
		unknown = append(unknown, t)
	}

	sort.SliceStable(known, func(i, j int) bool {
		ci := counts[strings.ToUpper(known[i].Schema+"."+known[i].Table)]
		cj := counts[strings.ToUpper(known[j].Schema+"."+known[j].Table)]
		return ci > cj
	})

	return append(known, unknown...)
}

func splitQualified(s string) (schema, name string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
