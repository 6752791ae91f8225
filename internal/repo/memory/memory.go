package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/reachmon/internal/domain"
)

// Store keeps records in process memory. It backs dry runs and tests.
type Store struct {
	mu      sync.RWMutex
	records []domain.Record
}

func New() *Store {
	return &Store{records: make([]domain.Record, 0, 128)}
}

func (m *Store) Append(ctx context.Context, r *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	if r.LatencyMS != nil {
		v := *r.LatencyMS
		cp.LatencyMS = &v
	}
	m.records = append(m.records, cp)
	return nil
}

// All returns every record in append order.
func (m *Store) All() []domain.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Record, len(m.records))
	copy(out, m.records)
	return out
}
