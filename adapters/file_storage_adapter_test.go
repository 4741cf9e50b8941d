package adapters

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageAdapter_InsertList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	adapter := NewFileStorageAdapter(path)
	ctx := context.Background()

	if err := adapter.Insert(ctx, Record{EventID: "e1", Payload: json.RawMessage(`{"n":1}`)}); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	if err := adapter.Insert(ctx, Record{EventID: "e2", Payload: json.RawMessage(`{"n":2}`)}); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	loaded, err := adapter.List(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(loaded) != 2 || loaded[0].EventID != "e1" || loaded[1].EventID != "e2" {
		t.Fatal("listed records do not match inserted records")
	}
	if loaded[0].ID != 1 || loaded[1].ID != 2 {
		t.Fatalf("expected sequential ids, got %d and %d", loaded[0].ID, loaded[1].ID)
	}

	limited, err := adapter.List(ctx, 1)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(limited) != 1 || limited[0].EventID != "e1" {
		t.Fatal("expected limit to keep the oldest record")
	}
}

func TestFileStorageAdapter_ListNonExistent(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "nonexistent.json"))
	loaded, err := adapter.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("expected no error for nonexistent file: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatal("expected empty slice for nonexistent file")
	}
}

func TestFileStorageAdapter_DeleteAndSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	adapter := NewFileStorageAdapter(path)
	ctx := context.Background()

	adapter.Insert(ctx, Record{EventID: "e1", Payload: json.RawMessage(`{"n":1}`)})
	adapter.Insert(ctx, Record{EventID: "e2", Payload: json.RawMessage(`{"n":22}`)})

	size, err := adapter.Size(ctx)
	if err != nil {
		t.Fatalf("failed to size: %v", err)
	}
	if size != 15 {
		t.Fatalf("expected size 15, got %d", size)
	}

	if err := adapter.Delete(ctx, []int64{1}); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	loaded, _ := adapter.List(ctx, 0)
	if len(loaded) != 1 || loaded[0].EventID != "e2" {
		t.Fatal("expected only e2 to remain")
	}

	if err := adapter.Delete(ctx, []int64{2}); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed once empty")
	}
}

func TestFileStorageAdapter_InsertError(t *testing.T) {
	adapter := NewFileStorageAdapter("/invalid/path/test.json")
	err := adapter.Insert(context.Background(), Record{EventID: "e1", Payload: json.RawMessage(`{}`)})
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestFileStorageAdapter_ListInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	os.WriteFile(path, []byte("invalid json"), 0644)

	adapter := NewFileStorageAdapter(path)
	_, err := adapter.List(context.Background(), 0)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestFileStorageAdapter_CanceledContext(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "events.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := adapter.Insert(ctx, Record{EventID: "e1"}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
