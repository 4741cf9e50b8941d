package adapters

import "sync/atomic"

// ConnectivityAdapter reports whether the device can currently reach the network.
type ConnectivityAdapter interface {
	IsConnected() bool
}

// StaticConnectivityAdapter reports a value set by the host application,
// typically updated from platform network callbacks.
type StaticConnectivityAdapter struct {
	connected atomic.Bool
}

var _ ConnectivityAdapter = (*StaticConnectivityAdapter)(nil)

// NewStaticConnectivityAdapter creates an adapter with the given initial state.
func NewStaticConnectivityAdapter(connected bool) *StaticConnectivityAdapter {
	a := &StaticConnectivityAdapter{}
	a.connected.Store(connected)
	return a
}

// SetConnected updates the reported state.
func (a *StaticConnectivityAdapter) SetConnected(connected bool) {
	a.connected.Store(connected)
}

func (a *StaticConnectivityAdapter) IsConnected() bool {
	return a.connected.Load()
}
