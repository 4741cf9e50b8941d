package adapters

import (
	"context"
	"testing"
)

func TestNoOpStorageAdapter_Insert(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	err := adapter.Insert(context.Background(), Record{EventID: "test_event"})
	if err != nil {
		t.Errorf("Insert should always return nil, got: %v", err)
	}
}

func TestNoOpStorageAdapter_List(t *testing.T) {
	adapter := NewNoOpStorageAdapter()
	adapter.Insert(context.Background(), Record{EventID: "test_event"})

	records, err := adapter.List(context.Background(), 0)
	if err != nil {
		t.Errorf("List should return nil error, got: %v", err)
	}

	if records == nil {
		t.Error("List should return empty slice, not nil")
	}

	if len(records) != 0 {
		t.Errorf("List should return empty slice, got %d records", len(records))
	}
}

func TestNoOpStorageAdapter_DeleteSizeClose(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	if err := adapter.Delete(context.Background(), []int64{1}); err != nil {
		t.Errorf("Delete should always return nil, got: %v", err)
	}
	size, err := adapter.Size(context.Background())
	if err != nil || size != 0 {
		t.Errorf("Size should return 0, nil; got %d, %v", size, err)
	}
	if err := adapter.Close(); err != nil {
		t.Errorf("Close should always return nil, got: %v", err)
	}
}

func TestNoOpStorageAdapter_Interface(t *testing.T) {
	var _ StorageAdapter = (*NoOpStorageAdapter)(nil)
}
