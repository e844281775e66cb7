package report

import (
	"fmt"
	"strings"

	"github.com/rowcheck/rowcheck/internal/exec"
)

// detailFormatter renders one block per TaskKey: emitted SQL
// (whitespace-collapsed), per-side result, duration, error, and
// status, satisfying spec.md §8 testable property 8 — every TaskKey
// appears exactly once.
type detailFormatter struct{}

func (detailFormatter) Format(reports []TaskReport) string {
	var sb strings.Builder
	sb.WriteString("Detail Report\n")
	sb.WriteString("=============\n\n")

	for _, r := range reports {
		fmt.Fprintf(&sb, "TaskKey: %s\n", r.Key)
		fmt.Fprintf(&sb, "Status:  %s\n", r.Status)

		if r.Status == StatusFailSynthesis {
			fmt.Fprintf(&sb, "Synthesis error: %v\n\n", r.SynthesisErr)
			continue
		}

		fmt.Fprintf(&sb, "SRC SQL: %s\n", collapseWhitespace(r.SrcSQL))
		fmt.Fprintf(&sb, "TGT SQL: %s\n", collapseWhitespace(r.TgtSQL))

		writeSide(&sb, "SRC", r.SRC)
		writeSide(&sb, "TGT", r.TGT)

		if r.Divergence != "" {
			fmt.Fprintf(&sb, "Divergence: %s\n", r.Divergence)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeSide(sb *strings.Builder, label string, outcome exec.TaskOutcome) {
	if outcome.Err != nil {
		fmt.Fprintf(sb, "%s: error=%v duration=%dms\n", label, outcome.Err, outcome.Duration.Milliseconds())
		return
	}
	fmt.Fprintf(sb, "%s: count=%d checksum=%d duration=%dms\n",
		label, outcome.Result.Count, outcome.Result.Checksum, outcome.Duration.Milliseconds())
}
