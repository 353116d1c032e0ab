package input

import (
	"context"

	"quickapply/internal/domain/entity"
)

type Applier interface {
	Execute(ctx context.Context, searchURL string) (*entity.RunSummary, error)
}

type SessionBootstrapper interface {
	Bootstrap(ctx context.Context) error
}
