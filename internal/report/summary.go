package report

import (
	"fmt"
	"strings"
)

// summaryFormatter renders the counts-by-status block and the
// consistency-rate percentage, following the shape of the teacher's
// own summaryFormatter (strings.Builder, fixed section headers).
type summaryFormatter struct{}

func (summaryFormatter) Format(reports []TaskReport) string {
	var sb strings.Builder
	sb.WriteString("Summary Report\n")
	sb.WriteString("==============\n\n")

	counts := map[Status]int{}
	var synthesisKeys, inconsistentKeys, executionKeys []string

	for _, r := range reports {
		counts[r.Status]++
		switch r.Status {
		case StatusFailSynthesis:
			synthesisKeys = append(synthesisKeys, string(r.Key))
		case StatusFailInconsistent:
			inconsistentKeys = append(inconsistentKeys, string(r.Key))
		case StatusFailExecution:
			executionKeys = append(executionKeys, string(r.Key))
		}
	}

	fmt.Fprintf(&sb, "Total tasks:        %d\n", len(reports))
	fmt.Fprintf(&sb, "PASS:               %d\n", counts[StatusPass])
	fmt.Fprintf(&sb, "FAIL_SYNTHESIS:     %d\n", counts[StatusFailSynthesis])
	fmt.Fprintf(&sb, "FAIL_EXECUTION:     %d\n", counts[StatusFailExecution])
	fmt.Fprintf(&sb, "FAIL_INCONSISTENT:  %d\n", counts[StatusFailInconsistent])
	fmt.Fprintf(&sb, "Consistency rate:   %.2f%%\n\n", ConsistencyRate(reports)*100)

	writeKeyList(&sb, "FAIL_SYNTHESIS tasks", synthesisKeys)
	writeKeyList(&sb, "FAIL_INCONSISTENT tasks", inconsistentKeys)
	writeKeyList(&sb, "FAIL_EXECUTION tasks", executionKeys)

	return sb.String()
}

func writeKeyList(sb *strings.Builder, title string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(sb, "  - %s\n", k)
	}
	sb.WriteString("\n")
}
