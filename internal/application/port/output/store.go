package output

import (
	"context"

	"quickapply/internal/domain/entity"
)

type CookieStore interface {
	Load(ctx context.Context) ([]entity.Cookie, error)
	Save(ctx context.Context, cookies []entity.Cookie) error
}

type SnapshotStore interface {
	Save(ctx context.Context, name string, shot *entity.Screenshot) (string, error)
}
