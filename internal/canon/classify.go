package canon

import (
	"strings"

	"github.com/rowcheck/rowcheck/internal/model"
)

// ClassifyOracleType maps the driver-reported DatabaseTypeName of a
// SRC column (as returned by godror via *sql.ColumnType) to a
// ColumnKind. Unknown or unsupported types classify as KindExcluded,
// per spec.md §3's EXCLUDED list: LOBs, raw/long-raw, labeled
// security types, user-defined types, REF, interval types, and
// UROWID are all intentionally dropped from the checksum projection.
func ClassifyOracleType(dbType string) model.ColumnKind {
	t := strings.ToUpper(strings.TrimSpace(dbType))

	switch {
	case t == "NUMBER", t == "FLOAT", t == "INT", t == "INTEGER",
		t == "SMALLINT", t == "DECIMAL", t == "NUMERIC":
		return model.KindNumeric
	case t == "BINARY_FLOAT":
		return model.KindBinaryFloat
	case t == "BINARY_DOUBLE":
		return model.KindBinaryDouble
	case t == "DATE":
		return model.KindDate
	case t == "TIMESTAMP WITH TIME ZONE":
		return model.KindTimestampTZ
	case t == "TIMESTAMP WITH LOCAL TIME ZONE":
		return model.KindTimestampLocalTZ
	case t == "TIMESTAMP", strings.HasPrefix(t, "TIMESTAMP("):
		return model.KindTimestamp
	case t == "CHAR", t == "NCHAR":
		return model.KindCharFixed
	case t == "VARCHAR2", t == "NVARCHAR2", t == "VARCHAR":
		return model.KindCharVar
	default:
		return model.KindExcluded
	}
}

// ClassifyPostgresType maps a Postgres information_schema data_type
// (as surfaced by the TGT driver) to a ColumnKind. TGT metadata is
// never used to decide projection or canonicalization — see
// spec.md §9 "Metadata as single source of truth" — but the mapping
// is kept alongside the Oracle one since both describe the same
// dialect-pair canonicalization contract and a test suite needs both
// to assert dialect-symmetric behavior (spec.md §8 property 3).
func ClassifyPostgresType(dataType string) model.ColumnKind {
	t := strings.ToLower(strings.TrimSpace(dataType))

	switch {
	case t == "numeric", t == "integer", t == "bigint", t == "smallint",
		t == "decimal":
		return model.KindNumeric
	case t == "real":
		return model.KindBinaryFloat
	case t == "double precision":
		return model.KindBinaryDouble
	case t == "date":
		return model.KindDate
	case t == "timestamp with time zone":
		return model.KindTimestampTZ
	case t == "timestamp without time zone", t == "timestamp":
		return model.KindTimestamp
	case t == "character":
		return model.KindCharFixed
	case t == "character varying", t == "text":
		return model.KindCharVar
	default:
		return model.KindExcluded
	}
}
