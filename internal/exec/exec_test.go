package exec

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rowcheck/rowcheck/internal/model"
)

// fakeDriver is a minimal database/sql/driver implementation used
// only to exercise Run's dispatch and error-isolation logic without a
// live database. Queries containing "FAIL" return an error; all
// others return one row of (count=1, checksum=42).
type fakeDriver struct{}

func (fakeDriver) Open(name string) (driver.Conn, error) { return &fakeConn{}, nil }

type fakeConn struct{}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{query: query}, nil
}
func (c *fakeConn) Close() error              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return nil, errors.New("not supported") }

type fakeStmt struct{ query string }

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("not supported")
}
func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	if containsFailMarker(s.query) {
		return nil, fmt.Errorf("simulated failure for query: %s", s.query)
	}
	return &fakeRows{delivered: false}, nil
}

func containsFailMarker(query string) bool {
	for i := 0; i+4 <= len(query); i++ {
		if query[i:i+4] == "FAIL" {
			return true
		}
	}
	return false
}

type fakeRows struct{ delivered bool }

func (r *fakeRows) Columns() []string { return []string{"cnt", "cksum"} }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.delivered {
		return sql.ErrNoRows
	}
	r.delivered = true
	dest[0] = int64(1)
	dest[1] = int64(42)
	return nil
}

var registerOnce sync.Once

func openFakeDB(t *testing.T) *sql.DB {
	t.Helper()
	registerOnce.Do(func() {
		sql.Register("rowcheck-fake", fakeDriver{})
	})
	db, err := sql.Open("rowcheck-fake", "fake")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunRecordsSuccessOnBothSides(t *testing.T) {
	db := openFakeDB(t)
	tasks := []model.CheckTask{
		{Key: model.TableTaskKey("HR", "EMP"), SrcSQL: "SELECT src ok", TgtSQL: "SELECT tgt ok"},
	}

	report := Run(context.Background(), db, db, tasks, 4, zap.NewNop())

	src, ok := report.SRC[tasks[0].Key]
	require.True(t, ok)
	assert.NoError(t, src.Err)
	assert.Equal(t, int64(1), src.Result.Count)
	assert.Equal(t, int64(42), src.Result.Checksum)

	tgt, ok := report.TGT[tasks[0].Key]
	require.True(t, ok)
	assert.NoError(t, tgt.Err)
}

func TestRunIsolatesPerTaskFailures(t *testing.T) {
	db := openFakeDB(t)
	okKey := model.TableTaskKey("HR", "OK_TABLE")
	failKey := model.TableTaskKey("HR", "BAD_TABLE")
	tasks := []model.CheckTask{
		{Key: okKey, SrcSQL: "SELECT ok", TgtSQL: "SELECT ok"},
		{Key: failKey, SrcSQL: "SELECT FAIL", TgtSQL: "SELECT ok"},
	}

	report := Run(context.Background(), db, db, tasks, 4, zap.NewNop())

	// The failing task's SRC side recorded an error...
	failSrc, ok := report.SRC[failKey]
	require.True(t, ok)
	assert.Error(t, failSrc.Err)

	// ...but its sibling task still completed successfully on both
	// sides, proving one worker's error did not abort the group.
	okSrc, ok := report.SRC[okKey]
	require.True(t, ok)
	assert.NoError(t, okSrc.Err)
	okTgt, ok := report.TGT[okKey]
	require.True(t, ok)
	assert.NoError(t, okTgt.Err)

	failTgt, ok := report.TGT[failKey]
	require.True(t, ok)
	assert.NoError(t, failTgt.Err)
}

func TestRunRecordsDuration(t *testing.T) {
	db := openFakeDB(t)
	key := model.TableTaskKey("HR", "EMP")
	tasks := []model.CheckTask{{Key: key, SrcSQL: "SELECT ok", TgtSQL: "SELECT ok"}}

	report := Run(context.Background(), db, db, tasks, 2, zap.NewNop())

	assert.True(t, report.SRC[key].Duration >= 0)
	assert.True(t, report.TGT[key].Duration >= 0)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	db := openFakeDB(t)
	key := model.TableTaskKey("HR", "EMP")
	tasks := []model.CheckTask{{Key: key, SrcSQL: "SELECT ok", TgtSQL: "SELECT ok"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan Report, 1)
	go func() { done <- Run(ctx, db, db, tasks, 2, zap.NewNop()) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return promptly after context cancellation")
	}
}
