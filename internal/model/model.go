// Package model holds the data types shared across the planning,
// synthesis, execution, and reporting stages of a checksum comparison
// run. None of these types touch a database connection; they are the
// immutable records that flow between the stages.
package model

import "fmt"

// TaskKey identifies a single comparison unit. It is either
// "TABLE:<schema>.<name>" for a table-derived base query or
// "CUSTOM:<label>" for a user-supplied one. Names are matched against
// catalog metadata after ASCII-folding to upper case, but the TaskKey
// itself preserves the user's original casing.
type TaskKey string

// TableTaskKey builds the TaskKey for a schema-qualified table.
func TableTaskKey(schema, table string) TaskKey {
	if schema == "" {
		return TaskKey(fmt.Sprintf("TABLE:%s", table))
	}
	return TaskKey(fmt.Sprintf("TABLE:%s.%s", schema, table))
}

// CustomTaskKey builds the TaskKey for an ad-hoc query.
func CustomTaskKey(label string) TaskKey {
	return TaskKey(fmt.Sprintf("CUSTOM:%s", label))
}

// ColumnKind classifies a projected column for the purpose of
// canonical textualization. EXCLUDED columns are dropped from the
// checksum projection entirely.
type ColumnKind string

const (
	KindNumeric          ColumnKind = "NUMERIC"
	KindCharFixed        ColumnKind = "CHAR_FIXED"
	KindCharVar          ColumnKind = "CHAR_VAR"
	KindDate             ColumnKind = "DATE"
	KindTimestamp        ColumnKind = "TIMESTAMP"
	KindTimestampTZ      ColumnKind = "TIMESTAMP_TZ"
	KindTimestampLocalTZ ColumnKind = "TIMESTAMP_LOCAL_TZ"
	KindBinaryFloat      ColumnKind = "BINARY_FLOAT"
	KindBinaryDouble     ColumnKind = "BINARY_DOUBLE"
	KindExcluded         ColumnKind = "EXCLUDED"
)

// ColumnDescriptor is one projected column of a base query, as
// discovered by describing that query against SRC.
type ColumnDescriptor struct {
	Name string
	Kind ColumnKind
}

// SchemaMap maps a SRC schema identifier to its TGT counterpart. Keys
// and values are lower-cased on load; lookups are case-insensitive.
type SchemaMap map[string]string

// Lookup returns the TGT schema for a SRC schema, case-insensitively.
func (m SchemaMap) Lookup(srcSchema string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[normalizeSchemaKey(srcSchema)]
	return v, ok
}

func normalizeSchemaKey(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// NewSchemaMap lower-cases every key and value of the input map.
func NewSchemaMap(raw map[string]string) SchemaMap {
	m := make(SchemaMap, len(raw))
	for k, v := range raw {
		m[normalizeSchemaKey(k)] = normalizeSchemaKey(v)
	}
	return m
}

// CheckTask is a single planned comparison: a SRC query and a TGT
// query that project the same ordered, canonicalized column list.
// CheckTask is immutable once constructed by the synthesizer.
type CheckTask struct {
	Key    TaskKey
	SrcSQL string
	TgtSQL string
}

// ChecksumResult is the outcome of running one side of a CheckTask.
type ChecksumResult struct {
	Count    int64
	Checksum int64
}

// Equal reports whether two results are componentwise equal.
func (r ChecksumResult) Equal(other ChecksumResult) bool {
	return r.Count == other.Count && r.Checksum == other.Checksum
}
