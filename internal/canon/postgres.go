package canon

import (
	"fmt"

	"github.com/rowcheck/rowcheck/internal/model"
)

type postgresEmitter struct{}

// Canonicalize mirrors oracleEmitter's output shapes exactly, using
// PostgreSQL's own to_char template language. PostgreSQL has no FFn
// modifier for sub-second precision; "US" renders the same six
// microsecond digits that Oracle's FF6 does, keeping the two engines'
// canonical text bit-for-bit identical for equal instants.
func (postgresEmitter) Canonicalize(kind model.ColumnKind, col string) (string, bool) {
	switch kind {
	case model.KindNumeric, model.KindBinaryFloat, model.KindBinaryDouble:
		return fmt.Sprintf("to_char(%s, '%s')", col, numericMask), true
	case model.KindDate:
		return fmt.Sprintf("to_char(%s, 'YYYYMMDDHH24MISS') || '000000'", col), true
	case model.KindTimestamp, model.KindTimestampTZ, model.KindTimestampLocalTZ:
		return fmt.Sprintf("to_char(%s, 'YYYYMMDDHH24MISSUS')", col), true
	case model.KindCharFixed:
		return fmt.Sprintf("RTRIM(%s)", col), true
	case model.KindCharVar:
		return col, true
	case model.KindExcluded:
		return "", false
	default:
		return "", false
	}
}
