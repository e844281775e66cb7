// Package rdbms is the thin connection and introspection layer over
// the two database engines. It is deliberately shallow: spec.md §1
// treats "database driver loading" and "schema-discovery queries
// against catalog views" as external collaborators, described only
// at their interfaces. SRC uses godror (Oracle), TGT uses pgx's
// database/sql adapter (PostgreSQL-compatible).
package rdbms

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/godror/godror"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ConnParams are the connection settings for one side, taken directly
// from spec.md §6's `databases.{src,tgt}` config keys.
type ConnParams struct {
	URL       string
	User      string
	Password  string
	DriverJar string
}

// OpenSRC opens a fresh connection to the Oracle-family source
// engine. Every call returns an independent *sql.DB pool; the CLI
// opens one and shares it between the Task Planner and the Dual
// Executor, each query checking out its own pooled connection.
func OpenSRC(p ConnParams) (*sql.DB, error) {
	if _, err := ResolveDriverJar(p.DriverJar); err != nil {
		return nil, fmt.Errorf("rdbms: resolving src driver_jar: %w", err)
	}
	dsn := fmt.Sprintf("%s/%s@%s", p.User, p.Password, p.URL)
	db, err := sql.Open("godror", dsn)
	if err != nil {
		return nil, fmt.Errorf("rdbms: opening src connection: %w", err)
	}
	return db, nil
}

// OpenTGT opens a fresh connection to the PostgreSQL-compatible
// target engine.
func OpenTGT(p ConnParams) (*sql.DB, error) {
	if _, err := ResolveDriverJar(p.DriverJar); err != nil {
		return nil, fmt.Errorf("rdbms: resolving tgt driver_jar: %w", err)
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s", p.User, p.Password, p.URL)
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("rdbms: opening tgt connection: %w", err)
	}
	return db, nil
}

// ResolveDriverJar resolves the driver_jar locator hint against the
// current directory, then "lib/". An empty hint is valid: godror and
// pgx are pure-cgo/pure-Go drivers that do not load a JDBC jar, so the
// hint is accepted for configuration-format compatibility but is only
// meaningful in environments that place Oracle Instant Client shared
// objects alongside it.
func ResolveDriverJar(hint string) (string, error) {
	if hint == "" {
		return "", nil
	}
	if _, err := os.Stat(hint); err == nil {
		return hint, nil
	}
	alt := filepath.Join("lib", hint)
	if _, err := os.Stat(alt); err == nil {
		return alt, nil
	}
	return "", fmt.Errorf("rdbms: driver_jar %q not found in . or lib/", hint)
}
