package output

import (
	"context"

	"quickapply/internal/domain/entity"
)

// JobSource supplies the listing the application flow iterates over.
type JobSource interface {
	Load(ctx context.Context, url string) error
	LoadAll(ctx context.Context) error
	Jobs(ctx context.Context) ([]entity.Job, error)
	// JobSelector locates the listing item of a job on the loaded page.
	JobSelector(id string) string
}
