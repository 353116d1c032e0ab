// Package snapshot keeps failure screenshots on disk.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"

	"github.com/google/uuid"
)

var _ output.SnapshotStore = (*FileStore)(nil)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes shot as <dir>/<name>_<uuid>.<format> and returns the path.
func (s *FileStore) Save(ctx context.Context, name string, shot *entity.Screenshot) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", errors.New("empty screenshot")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	format := shot.Format
	if format == "" || format == "jpeg" {
		format = "jpg"
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.%s", cleanName(name), uuid.NewString(), format))
	if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

func cleanName(name string) string {
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return "snapshot"
	}
	if len(name) > 60 {
		name = name[:60]
	}
	return name
}
