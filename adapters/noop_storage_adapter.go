package adapters

import "context"

// NoOpStorageAdapter is a storage adapter that performs no operations.
// Useful when analytics is disabled and recorded events should be discarded.
type NoOpStorageAdapter struct{}

// NewNoOpStorageAdapter creates a new NoOpStorageAdapter instance.
func NewNoOpStorageAdapter() *NoOpStorageAdapter {
	return &NoOpStorageAdapter{}
}

// Insert does nothing and always returns nil.
func (n *NoOpStorageAdapter) Insert(ctx context.Context, record Record) error {
	return nil
}

// List returns an empty slice and nil error.
func (n *NoOpStorageAdapter) List(ctx context.Context, limit int) ([]Record, error) {
	return []Record{}, nil
}

// Delete does nothing and always returns nil.
func (n *NoOpStorageAdapter) Delete(ctx context.Context, ids []int64) error {
	return nil
}

// Size always reports zero bytes.
func (n *NoOpStorageAdapter) Size(ctx context.Context) (int64, error) {
	return 0, nil
}

// Close does nothing and always returns nil.
func (n *NoOpStorageAdapter) Close() error {
	return nil
}
