package adapters

import "context"

// StorageAdapter is an interface for on-device event persistence.
// Implement this interface to use custom storage backends.
type StorageAdapter interface {
	// Insert appends one record. The adapter assigns Record.ID.
	Insert(ctx context.Context, record Record) error

	// List returns stored records oldest first.
	//
	// Parameters:
	//   - limit: Maximum number of records to return; zero or negative means all
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes the records with the given ids. Unknown ids are ignored.
	Delete(ctx context.Context, ids []int64) error

	// Size returns the total payload bytes currently stored.
	Size(ctx context.Context) (int64, error)

	// Close releases the underlying storage handle.
	Close() error
}
