package output

import (
	"context"

	"quickapply/internal/domain/entity"
)

// ReporterPort renders human-facing progress while the flow runs.
type ReporterPort interface {
	ShowJobStart(ctx context.Context, index, total int, job entity.Job)
	ShowJobResult(ctx context.Context, result entity.JobResult)
	ShowSummary(ctx context.Context, summary *entity.RunSummary)
}
