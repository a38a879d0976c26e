// Package summaryrepo keeps a history of completed summaries.
package summaryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

// MemoryRepository keeps history in process memory, up to capacity records.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  []summarizer.HistoryRecord
	capacity int
}

// NewMemoryRepository constructs the repository. Non-positive capacity keeps everything.
func NewMemoryRepository(capacity int) *MemoryRepository {
	return &MemoryRepository{capacity: capacity}
}

func (r *MemoryRepository) Append(_ context.Context, rec summarizer.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if r.capacity > 0 && len(r.records) > r.capacity {
		r.records = append(r.records[:0:0], r.records[len(r.records)-r.capacity:]...)
	}
	return nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]summarizer.HistoryRecord, error) {
	r.mu.RLock()
	out := make([]summarizer.HistoryRecord, len(r.records))
	copy(out, r.records)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ summarizer.HistoryRepository = (*MemoryRepository)(nil)
