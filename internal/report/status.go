// Package report implements the Comparator & Reporter (spec.md §4.5
// and §6, component C5): it classifies every TaskKey's outcome and
// writes a detail and a summary report, following the shape of the
// teacher's internal/output package (one formatter per report kind,
// building its text with strings.Builder).
package report

import (
	"fmt"

	"github.com/rowcheck/rowcheck/internal/exec"
	"github.com/rowcheck/rowcheck/internal/model"
)

// Status classifies a single TaskKey's outcome, per spec.md §4.5.
type Status string

const (
	StatusPass             Status = "PASS"
	StatusFailSynthesis    Status = "FAIL_SYNTHESIS"
	StatusFailExecution    Status = "FAIL_EXECUTION"
	StatusFailInconsistent Status = "FAIL_INCONSISTENT"
)

// TaskReport is one TaskKey's classified outcome, carrying enough of
// the underlying data to render both the detail and summary reports.
type TaskReport struct {
	Key            model.TaskKey
	Status         Status
	SynthesisErr   error
	SRC            exec.TaskOutcome
	TGT            exec.TaskOutcome
	SrcSQL, TgtSQL string
	Divergence     string // populated only for FAIL_INCONSISTENT
}

// Classify computes every TaskKey's status, per spec.md §4.5's
// precedence: synthesis failure first, then execution absence, then
// count/checksum comparison. planErrors is the synthesis-errors map
// from internal/plan.Result; tasks and execReport come from a
// successful internal/exec.Run.
func Classify(tasks []model.CheckTask, planErrors map[model.TaskKey]error, execReport exec.Report) []TaskReport {
	reports := make([]TaskReport, 0, len(tasks)+len(planErrors))

	for key, synthErr := range planErrors {
		reports = append(reports, TaskReport{Key: key, Status: StatusFailSynthesis, SynthesisErr: synthErr})
	}

	for _, task := range tasks {
		src, srcOK := execReport.SRC[task.Key]
		tgt, tgtOK := execReport.TGT[task.Key]

		tr := TaskReport{Key: task.Key, SRC: src, TGT: tgt, SrcSQL: task.SrcSQL, TgtSQL: task.TgtSQL}

		switch {
		case !srcOK || !tgtOK || src.Err != nil || tgt.Err != nil:
			tr.Status = StatusFailExecution
		case src.Result.Equal(tgt.Result):
			tr.Status = StatusPass
		default:
			tr.Status = StatusFailInconsistent
			tr.Divergence = divergenceDescription(src.Result, tgt.Result)
		}

		reports = append(reports, tr)
	}

	return reports
}

func divergenceDescription(src, tgt model.ChecksumResult) string {
	countDiff := src.Count != tgt.Count
	cksumDiff := src.Checksum != tgt.Checksum

	switch {
	case countDiff && cksumDiff:
		return fmt.Sprintf("Count mismatch: SRC=%d, TGT=%d; Checksum mismatch: SRC=%d, TGT=%d",
			src.Count, tgt.Count, src.Checksum, tgt.Checksum)
	case countDiff:
		return fmt.Sprintf("Count mismatch: SRC=%d, TGT=%d", src.Count, tgt.Count)
	default:
		return fmt.Sprintf("Checksum mismatch: SRC=%d, TGT=%d", src.Checksum, tgt.Checksum)
	}
}

// ConsistencyRate computes PASS / (total - FAIL_SYNTHESIS), per
// spec.md §4.5, to avoid penalizing the engine for structural
// synthesis failures outside its control. Returns 0 when every task
// failed synthesis.
func ConsistencyRate(reports []TaskReport) float64 {
	var pass, eligible int
	for _, r := range reports {
		if r.Status == StatusFailSynthesis {
			continue
		}
		eligible++
		if r.Status == StatusPass {
			pass++
		}
	}
	if eligible == 0 {
		return 0
	}
	return float64(pass) / float64(eligible)
}
