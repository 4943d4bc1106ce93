package history

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo defines persistence operations for ingestion history.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByFileID(ctx context.Context, fileID string) (Record, error)
	ListRecent(ctx context.Context, limit, offset int) ([]Record, error)
}
