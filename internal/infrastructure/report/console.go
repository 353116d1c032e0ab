package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ReporterPort = (*ConsoleReporter)(nil)

// ConsoleReporter prints run progress for the operator.
type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

func (r *ConsoleReporter) ShowJobStart(ctx context.Context, index, total int, job entity.Job) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(r.out, "\n━━━ Job %d/%d ━━━\n", index, total)

	dim := color.New(color.Faint)
	dim.Fprintf(r.out, "   %s\n", truncate(job.DisplayName, 80))
}

func (r *ConsoleReporter) ShowJobResult(ctx context.Context, result entity.JobResult) {
	icon, c := statusDisplay(result.Outcome.Status)
	line := string(result.Outcome.Status)
	if result.Outcome.Reason != entity.ReasonNone {
		line += " (" + string(result.Outcome.Reason) + ")"
	}
	if result.Outcome.Status == entity.StatusSubmitted || result.Outcome.Status == entity.StatusIncomplete {
		line += fmt.Sprintf(", %d steps", result.Outcome.Steps)
	}
	if result.Duration > 0 {
		line += fmt.Sprintf(" in %s", result.Duration.Round(100*time.Millisecond))
	}
	c.Fprintf(r.out, "%s %s\n", icon, line)

	if result.Error != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(r.out, "   %s\n", truncate(result.Error, 300))
	}
}

func (r *ConsoleReporter) ShowSummary(ctx context.Context, summary *entity.RunSummary) {
	bold := color.New(color.Bold)
	bold.Fprintf(r.out, "\n━━━ Summary ━━━\n")
	fmt.Fprintf(r.out, "Jobs: %d, quick apply: %d\n", summary.Total, summary.Eligible)

	for _, status := range []entity.OutcomeStatus{
		entity.StatusSubmitted,
		entity.StatusIncomplete,
		entity.StatusSkipped,
		entity.StatusFailed,
	} {
		icon, c := statusDisplay(status)
		c.Fprintf(r.out, "%s %-10s %d\n", icon, status, count(summary, status))
	}
}

func count(s *entity.RunSummary, status entity.OutcomeStatus) int {
	switch status {
	case entity.StatusSubmitted:
		return s.Submitted
	case entity.StatusIncomplete:
		return s.Incomplete
	case entity.StatusSkipped:
		return s.Skipped
	default:
		return s.Failed
	}
}

func statusDisplay(status entity.OutcomeStatus) (string, *color.Color) {
	switch status {
	case entity.StatusSubmitted:
		return "✓", color.New(color.FgGreen)
	case entity.StatusIncomplete:
		return "⚠", color.New(color.FgYellow)
	case entity.StatusSkipped:
		return "↷", color.New(color.Faint)
	default:
		return "❌", color.New(color.FgRed)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
