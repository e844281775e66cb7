package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rowcheck/rowcheck/internal/errs"
)

// timestampLayout matches spec.md §6's "yyyyMMdd_HHmmss".
const timestampLayout = "20060102_150405"

// Write creates dir (if absent) and emits the detail and summary
// report files, timestamped with ts. Directory creation failure is a
// fatal ConfigError per spec.md §7.
func Write(dir string, reports []TaskReport, ts time.Time, log *zap.Logger) (detailPath, summaryPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errs.NewConfigError("report dir", fmt.Errorf("create %q: %w", dir, err))
	}

	stamp := ts.Format(timestampLayout)
	detailPath = filepath.Join(dir, fmt.Sprintf("detail_report_%s.txt", stamp))
	summaryPath = filepath.Join(dir, fmt.Sprintf("summary_report_%s.txt", stamp))

	sorted := sortedByKey(reports)

	if err := os.WriteFile(detailPath, []byte(detailFormatter{}.Format(sorted)), 0o644); err != nil {
		return "", "", errs.NewConfigError("report dir", fmt.Errorf("write detail report: %w", err))
	}
	if err := os.WriteFile(summaryPath, []byte(summaryFormatter{}.Format(sorted)), 0o644); err != nil {
		return "", "", errs.NewConfigError("report dir", fmt.Errorf("write summary report: %w", err))
	}

	if log != nil {
		log.Info("reports written", zap.String("detail", detailPath), zap.String("summary", summaryPath))
	}
	return detailPath, summaryPath, nil
}

func sortedByKey(reports []TaskReport) []TaskReport {
	out := make([]TaskReport, len(reports))
	copy(out, reports)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace flattens synthesized SQL onto a single line for
// readability in the detail report, per spec.md §6.
func collapseWhitespace(sql string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(sql, " "))
}
