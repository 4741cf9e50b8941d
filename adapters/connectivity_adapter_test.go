package adapters

import "testing"

func TestStaticConnectivityAdapter(t *testing.T) {
	adapter := NewStaticConnectivityAdapter(true)
	if !adapter.IsConnected() {
		t.Fatal("expected connected")
	}

	adapter.SetConnected(false)
	if adapter.IsConnected() {
		t.Fatal("expected disconnected")
	}
}
