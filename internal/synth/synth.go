// Package synth implements the checksum-query synthesizer (spec.md
// §4.2, component C2): given a base query's already-discovered column
// list, it derives a pair of dialect-specific aggregation queries
// whose numeric result is identical across engines exactly when the
// two engines hold the same multiset of rows.
package synth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rowcheck/rowcheck/internal/canon"
	"github.com/rowcheck/rowcheck/internal/model"
)

// BuildQueries synthesizes the SRC and TGT checksum SQL for baseSQL,
// given its already-described column list and the configured schema
// rewrite map. It is the pure, DB-free half of synthesis; see
// SynthesizeTask for the half that performs column discovery.
func BuildQueries(cols []model.ColumnDescriptor, baseSQL string, schemaMap model.SchemaMap) (srcSQL, tgtSQL string, err error) {
	srcEmit, _ := canon.Get(canon.Oracle)
	tgtEmit, _ := canon.Get(canon.Postgres)

	var srcProj, tgtProj []string
	for _, c := range cols {
		quoted := fmt.Sprintf("%q", c.Name)

		srcExpr, ok := srcEmit.Canonicalize(c.Kind, quoted)
		if !ok {
			continue
		}
		tgtExpr, ok := tgtEmit.Canonicalize(c.Kind, quoted)
		if !ok {
			continue
		}
		srcProj = append(srcProj, fmt.Sprintf("%s AS %s", srcExpr, quoted))
		tgtProj = append(tgtProj, fmt.Sprintf("%s AS %s", tgtExpr, quoted))
	}

	if len(srcProj) == 0 {
		return "", "", newError(EmptyProjection, nil)
	}

	srcSQL = oracleChecksumQuery(srcProj, baseSQL)
	tgtSQL = postgresChecksumQuery(tgtProj, baseSQL)
	tgtSQL = rewriteSchemas(tgtSQL, schemaMap)

	if strings.TrimSpace(srcSQL) == "" || strings.TrimSpace(tgtSQL) == "" {
		return "", "", newError(EmptyEmission, nil)
	}
	return srcSQL, tgtSQL, nil
}

// oracleChecksumQuery emits the SRC side of spec.md §4.2 steps 3-4.
// Lane offsets (0,4),(5,4),(9,4),(13,4) are taken from spec.md §4.2
// literally, including the leading-lane off-by-one flagged as an
// open question in §9 — this implementation does not resolve it.
func oracleChecksumQuery(projection []string, baseSQL string) string {
	rowset := fmt.Sprintf("(SELECT %s FROM (%s))", strings.Join(projection, ", "), baseSQL)
	return fmt.Sprintf(`SELECT COUNT(*) AS cnt, SUM(lane_sum) AS cksum
FROM (
  SELECT (
      UTL_RAW.CAST_TO_BINARY_INTEGER(UTL_RAW.SUBSTR(h, 0, 4), UTL_RAW.BIG_ENDIAN)
    + UTL_RAW.CAST_TO_BINARY_INTEGER(UTL_RAW.SUBSTR(h, 5, 4), UTL_RAW.BIG_ENDIAN)
    + UTL_RAW.CAST_TO_BINARY_INTEGER(UTL_RAW.SUBSTR(h, 9, 4), UTL_RAW.BIG_ENDIAN)
    + UTL_RAW.CAST_TO_BINARY_INTEGER(UTL_RAW.SUBSTR(h, 13, 4), UTL_RAW.BIG_ENDIAN)
  ) / 4 AS lane_sum
  FROM (
    SELECT STANDARD_HASH(JSON_OBJECT(t.* RETURNING CLOB), 'MD5') AS h
    FROM %s t
  )
)`, rowset)
}

// postgresChecksumQuery emits the TGT side. Lane boundaries are
// 1-based hex-character offsets (1,8),(9,8),(17,8),(25,8) over the 32
// hex characters of md5(row_to_json(t)::text), matching spec.md §9.
func postgresChecksumQuery(projection []string, baseSQL string) string {
	rowset := fmt.Sprintf("(SELECT %s FROM (%s))", strings.Join(projection, ", "), baseSQL)
	return fmt.Sprintf(`SELECT COUNT(*) AS cnt, SUM(lane_sum) AS cksum
FROM (
  SELECT (
      ('x' || substr(h, 1, 8))::bit(32)::int
    + ('x' || substr(h, 9, 8))::bit(32)::int
    + ('x' || substr(h, 17, 8))::bit(32)::int
    + ('x' || substr(h, 25, 8))::bit(32)::int
  ) / 4 AS lane_sum
  FROM (
    SELECT md5(row_to_json(t)::text) AS h
    FROM %s t
  ) hashed
) summed`, rowset)
}

// rewriteSchemas substitutes every occurrence of "<src>." with
// "<tgt>." using case-insensitive word-boundary matching, per
// spec.md §4.2 step 5.
func rewriteSchemas(sql string, schemaMap model.SchemaMap) string {
	for src, tgt := range schemaMap {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(src) + `\.`)
		sql = re.ReplaceAllString(sql, tgt+".")
	}
	return sql
}
