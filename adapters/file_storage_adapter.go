package adapters

import (
	"context"
	"encoding/json"
	"os"
	"sync"
)

// FileStorageAdapter stores records as a JSON array in a single file.
// Every mutation rewrites the file, so it suits small volumes and tests.
type FileStorageAdapter struct {
	filepath string
	mu       sync.Mutex
}

// Ensure FileStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*FileStorageAdapter)(nil)

// NewFileStorageAdapter creates a new FileStorageAdapter instance.
//
// Parameters:
//   - filepath: Path to the file where records will be stored
func NewFileStorageAdapter(filepath string) *FileStorageAdapter {
	return &FileStorageAdapter{filepath: filepath}
}

// Insert appends a record and assigns it the next id.
func (f *FileStorageAdapter) Insert(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	var maxID int64
	for _, r := range records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	record.ID = maxID + 1
	return f.save(append(records, record))
}

// List returns stored records oldest first.
func (f *FileStorageAdapter) List(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Delete removes the records with the given ids.
func (f *FileStorageAdapter) Delete(ctx context.Context, ids []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := records[:0]
	for _, r := range records {
		if _, ok := drop[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return f.clear()
	}
	return f.save(kept)
}

// Size returns the total payload bytes in the file.
func (f *FileStorageAdapter) Size(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range records {
		total += r.Size()
	}
	return total, nil
}

// Close does nothing; the file is not held open between calls.
func (f *FileStorageAdapter) Close() error {
	return nil
}

// load retrieves records from the JSON file.
// Returns an empty slice if the file doesn't exist.
func (f *FileStorageAdapter) load() ([]Record, error) {
	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (f *FileStorageAdapter) save(records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filepath, data, 0644)
}

func (f *FileStorageAdapter) clear() error {
	err := os.Remove(f.filepath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
