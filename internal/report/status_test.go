package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowcheck/rowcheck/internal/exec"
	"github.com/rowcheck/rowcheck/internal/model"
)

func TestClassifyPass(t *testing.T) {
	key := model.TableTaskKey("HR", "EMP")
	tasks := []model.CheckTask{{Key: key, SrcSQL: "SRC SQL", TgtSQL: "TGT SQL"}}
	execReport := exec.Report{
		SRC: map[model.TaskKey]exec.TaskOutcome{key: {Result: model.ChecksumResult{Count: 2, Checksum: 99}}},
		TGT: map[model.TaskKey]exec.TaskOutcome{key: {Result: model.ChecksumResult{Count: 2, Checksum: 99}}},
	}

	reports := Classify(tasks, nil, execReport)
	require.Len(t, reports, 1)
	assert.Equal(t, StatusPass, reports[0].Status)
}

func TestClassifyFailInconsistentCountMismatch(t *testing.T) {
	key := model.TableTaskKey("HR", "EMP")
	tasks := []model.CheckTask{{Key: key, SrcSQL: "SRC SQL", TgtSQL: "TGT SQL"}}
	execReport := exec.Report{
		SRC: map[model.TaskKey]exec.TaskOutcome{key: {Result: model.ChecksumResult{Count: 3, Checksum: 99}}},
		TGT: map[model.TaskKey]exec.TaskOutcome{key: {Result: model.ChecksumResult{Count: 2, Checksum: 99}}},
	}

	reports := Classify(tasks, nil, execReport)
	require.Len(t, reports, 1)
	assert.Equal(t, StatusFailInconsistent, reports[0].Status)
	assert.Contains(t, reports[0].Divergence, "Count mismatch: SRC=3, TGT=2")
}

func TestClassifyFailExecutionOnMissingSide(t *testing.T) {
	key := model.TableTaskKey("HR", "EMP")
	tasks := []model.CheckTask{{Key: key, SrcSQL: "SRC SQL", TgtSQL: "TGT SQL"}}
	execReport := exec.Report{
		SRC: map[model.TaskKey]exec.TaskOutcome{key: {Result: model.ChecksumResult{Count: 2, Checksum: 99}}},
		TGT: map[model.TaskKey]exec.TaskOutcome{key: {Err: errors.New("connection refused")}},
	}

	reports := Classify(tasks, nil, execReport)
	require.Len(t, reports, 1)
	assert.Equal(t, StatusFailExecution, reports[0].Status)
}

func TestClassifyFailSynthesis(t *testing.T) {
	key := model.TableTaskKey("HR", "DOCS")
	planErrors := map[model.TaskKey]error{key: errors.New("empty projection")}

	reports := Classify(nil, planErrors, exec.Report{})
	require.Len(t, reports, 1)
	assert.Equal(t, StatusFailSynthesis, reports[0].Status)
}

func TestConsistencyRateExcludesSynthesisFailures(t *testing.T) {
	reports := []TaskReport{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusFailInconsistent},
		{Status: StatusFailSynthesis},
	}
	// 2 PASS out of (4 - 1 synthesis) = 3 eligible
	assert.InDelta(t, 2.0/3.0, ConsistencyRate(reports), 0.0001)
}

func TestConsistencyRateAllSynthesisFailuresIsZero(t *testing.T) {
	reports := []TaskReport{{Status: StatusFailSynthesis}, {Status: StatusFailSynthesis}}
	assert.Equal(t, 0.0, ConsistencyRate(reports))
}

func TestCollapseWhitespace(t *testing.T) {
	in := "SELECT  *\n  FROM   HR.EMP\n"
	assert.Equal(t, "SELECT * FROM HR.EMP", collapseWhitespace(in))
}

func TestDetailFormatterListsEveryTaskKeyOnce(t *testing.T) {
	key1 := model.TableTaskKey("HR", "EMP")
	key2 := model.CustomTaskKey("today")
	reports := []TaskReport{
		{Key: key1, Status: StatusPass, SrcSQL: "a", TgtSQL: "b"},
		{Key: key2, Status: StatusFailSynthesis, SynthesisErr: errors.New("boom")},
	}

	out := detailFormatter{}.Format(reports)
	assert.Equal(t, 1, countOccurrences(out, string(key1)))
	assert.Equal(t, 1, countOccurrences(out, string(key2)))
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
		}
	}
	return count
}
