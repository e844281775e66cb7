// Package canon maps a column's declared type to a pair of SQL
// fragment templates, one per dialect, that render the column to a
// canonical text form. Both dialects must produce the same canonical
// text for semantically equal values; that invariant is what lets the
// query synthesizer hash rows from either engine and get a matching
// checksum.
//
// The registry is a package-level, mutex-guarded map of dialect name
// to Emitter, filled at init time.
package canon

import (
	"fmt"
	"sync"

	"github.com/rowcheck/rowcheck/internal/model"
)

// Dialect identifies a supported SQL engine family.
type Dialect string

const (
	Oracle   Dialect = "oracle"
	Postgres Dialect = "postgres"
)

// Emitter renders a quoted column reference of the given kind into
// its canonical textualization for one dialect. ok is false for
// KindExcluded, signaling the column must be dropped from the
// projection.
type Emitter interface {
	Canonicalize(kind model.ColumnKind, quotedColumn string) (expr string, ok bool)
}

var (
	mu       sync.RWMutex
	registry = make(map[Dialect]Emitter)
)

func register(d Dialect, e Emitter) {
	mu.Lock()
	defer mu.Unlock()
	registry[d] = e
}

// Get returns the registered Emitter for a dialect.
func Get(d Dialect) (Emitter, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[d]
	if !ok {
		return nil, fmt.Errorf("canon: no emitter registered for dialect %q", d)
	}
	return e, nil
}

func init() {
	register(Oracle, oracleEmitter{})
	register(Postgres, postgresEmitter{})
}
