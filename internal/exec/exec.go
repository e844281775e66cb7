// Package exec implements the Dual Executor (spec.md §4.4 and §5,
// component C4): it runs every planned CheckTask's SRC query and TGT
// query concurrently across two bounded worker pools, isolating each
// task's failures from its siblings.
package exec

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rowcheck/rowcheck/internal/errs"
	"github.com/rowcheck/rowcheck/internal/model"
)

// ShutdownGrace is how long Run waits for in-flight tasks to finish
// cooperatively after ctx is canceled before returning regardless.
const ShutdownGrace = 60 * time.Second

// TaskOutcome is one task's SRC/TGT run result, captured independent
// of the other side's outcome per spec.md §4.4 "Error isolation".
type TaskOutcome struct {
	Result   model.ChecksumResult
	Err      error
	Duration time.Duration
}

// Report is the complete output of a Run: every task's SRC and TGT
// outcome, keyed by TaskKey. A task key is present in both maps
// whenever dispatch succeeded, regardless of whether the query itself
// errored — the error lives in TaskOutcome.Err, not a missing key.
type Report struct {
	SRC map[model.TaskKey]TaskOutcome
	TGT map[model.TaskKey]TaskOutcome
}

// Run dispatches every task to two errgroup pools, one against srcDB
// and one against tgtDB, each capped at ceil(threadCount/2) workers so
// neither engine's connection pool is overrun by the other's
// concurrency (spec.md §5, §6 `performance.thread_count`). Worker
// closures never return a non-nil error to their group: failures are
// captured into a mutex-guarded map instead, so one task's error
// cannot trip errgroup's cancel-on-first-error semantics and abort
// sibling tasks.
//
// srcDB and tgtDB are the pooled *sql.DB handles from
// internal/rdbms.OpenSRC/OpenTGT: spec.md §5's "one connection per
// worker per task, acquired on entry, released on all exit paths" is
// realized through database/sql's own connection pool rather than by
// opening a distinct *sql.DB per task, which is how the ecosystem
// already provides that guarantee idiomatically. Canceling ctx (e.g.
// on SIGINT/SIGTERM) propagates into every in-flight QueryRowContext
// and is the forcible-shutdown mechanism spec.md §4.4 describes;
// ShutdownGrace bounds how long Run waits for workers to notice.
func Run(ctx context.Context, srcDB, tgtDB *sql.DB, tasks []model.CheckTask, threadCount int, log *zap.Logger) Report {
	limit := (threadCount + 1) / 2 // ceil(threadCount/2), per spec.md §5
	if limit < 1 {
		limit = 1
	}

	report := Report{
		SRC: make(map[model.TaskKey]TaskOutcome, len(tasks)),
		TGT: make(map[model.TaskKey]TaskOutcome, len(tasks)),
	}
	var srcMu, tgtMu sync.Mutex

	srcGroup, srcCtx := errgroup.WithContext(ctx)
	srcGroup.SetLimit(limit)
	tgtGroup, tgtCtx := errgroup.WithContext(ctx)
	tgtGroup.SetLimit(limit)

	for _, task := range tasks {
		task := task

		srcGroup.Go(func() error {
			outcome := runOne(srcCtx, srcDB, task.SrcSQL, errs.SideSRC)
			if outcome.Err != nil {
				log.Warn("src task failed", zap.String("task", string(task.Key)), zap.Error(outcome.Err))
			}
			srcMu.Lock()
			report.SRC[task.Key] = outcome
			srcMu.Unlock()
			return nil
		})

		tgtGroup.Go(func() error {
			outcome := runOne(tgtCtx, tgtDB, task.TgtSQL, errs.SideTGT)
			if outcome.Err != nil {
				log.Warn("tgt task failed", zap.String("task", string(task.Key)), zap.Error(outcome.Err))
			}
			tgtMu.Lock()
			report.TGT[task.Key] = outcome
			tgtMu.Unlock()
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		srcGroup.Wait()
		tgtGroup.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		select {
		case <-done:
		case <-time.After(ShutdownGrace):
			log.Warn("dual executor shutdown grace period elapsed, returning partial results")
		}
	}

	return report
}

// runOne executes a single checksum query and parses its one-row
// result, per spec.md §4.4 step 2. The connection itself is owned and
// closed by the caller of Run, not here.
func runOne(ctx context.Context, db *sql.DB, query string, side errs.Side) TaskOutcome {
	start := time.Now()
	var count sql.NullInt64
	var checksum sql.NullInt64

	row := db.QueryRowContext(ctx, query)
	err := row.Scan(&count, &checksum)
	duration := time.Since(start)
	if err != nil {
		return TaskOutcome{Err: errs.NewExecutionError(side, err), Duration: duration}
	}

	return TaskOutcome{
		Result: model.ChecksumResult{
			Count:    count.Int64,
			Checksum: checksum.Int64,
		},
		Duration: duration,
	}
}
