package videoreader

import (
	"context"
)

type Factory interface {
	Open(ctx context.Context, path string, cfg Config) (Reader, error)
}
