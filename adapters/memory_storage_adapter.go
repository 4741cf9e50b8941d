package adapters

import (
	"context"
	"sync"
)

// MemoryStorageAdapter keeps records in process memory. Records are lost when
// the process exits.
type MemoryStorageAdapter struct {
	mu      sync.Mutex
	records []Record
	nextID  int64
}

var _ StorageAdapter = (*MemoryStorageAdapter)(nil)

// NewMemoryStorageAdapter creates an empty in-memory store.
func NewMemoryStorageAdapter() *MemoryStorageAdapter {
	return &MemoryStorageAdapter{nextID: 1}
}

func (m *MemoryStorageAdapter) Insert(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, record)
	return nil
}

func (m *MemoryStorageAdapter) List(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, n)
	copy(out, m.records[:n])
	return out, nil
}

func (m *MemoryStorageAdapter) Delete(ctx context.Context, ids []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := m.records[:0]
	for _, r := range m.records {
		if _, ok := drop[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

func (m *MemoryStorageAdapter) Size(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, r := range m.records {
		total += r.Size()
	}
	return total, nil
}

func (m *MemoryStorageAdapter) Close() error {
	return nil
}
