package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used when no
// database is configured and in tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	recs []Record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends a record.
func (r *MemoryRepo) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
	return nil
}

// GetByFileID returns the record for a pipeline file id.
func (r *MemoryRepo) GetByFileID(ctx context.Context, fileID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.recs {
		if r.recs[i].FileID == fileID {
			return r.recs[i], nil
		}
	}
	return Record{}, ErrNotFound
}

// ListRecent returns records newest-first, honoring limit/offset.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit, offset int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	recs := make([]Record, len(r.recs))
	copy(recs, r.recs)
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})

	if offset >= len(recs) {
		return []Record{}, nil
	}
	end := len(recs)
	if offset+limit < end {
		end = offset + limit
	}
	return recs[offset:end], nil
}
