package canon

import (
	"fmt"

	"github.com/rowcheck/rowcheck/internal/model"
)

// numericMask is shared by both dialects: up to 20 integer digits,
// exactly 8 fractional digits, leading zeros suppressed via the FM
// fill-mode modifier.
const numericMask = "FM99999999999999999999.00000000"

type oracleEmitter struct{}

func (oracleEmitter) Canonicalize(kind model.ColumnKind, col string) (string, bool) {
	switch kind {
	case model.KindNumeric, model.KindBinaryFloat, model.KindBinaryDouble:
		return fmt.Sprintf("TO_CHAR(%s, '%s')", col, numericMask), true
	case model.KindDate:
		return fmt.Sprintf("TO_CHAR(%s, 'YYYYMMDDHH24MISS') || '000000'", col), true
	case model.KindTimestamp, model.KindTimestampTZ, model.KindTimestampLocalTZ:
		return fmt.Sprintf("TO_CHAR(%s, 'YYYYMMDDHH24MISSFF6')", col), true
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
