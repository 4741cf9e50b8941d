package ripple

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeRecorder captures recorded events in order.
type fakeRecorder struct {
	mu        sync.Mutex
	events    []*Event
	submitted int
	closed    bool
}

func (r *fakeRecorder) RecordEvent(event *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *fakeRecorder) SubmitEvents() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted++
}

func (r *fakeRecorder) AllEvents() []json.RawMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]json.RawMessage, 0, len(r.events))
	for _, e := range r.events {
		data, _ := json.Marshal(e)
		out = append(out, data)
	}
	return out
}

func (r *fakeRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeRecorder) recorded() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *fakeRecorder) eventTypes() []string {
	events := r.recorded()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

type mockHTTPAdapter struct {
	mu         sync.Mutex
	calls      int
	sent       [][]json.RawMessage
	err        error
	statusCode int
}

func (m *mockHTTPAdapter) Send(ctx context.Context, endpoint string, events []json.RawMessage, headers map[string]string) (*adapters.HTTPResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, events)
	status := m.statusCode
	if status == 0 {
		status = 200
	}
	return &adapters.HTTPResponse{Status: status, OK: status >= 200 && status < 300}, nil
}

func (m *mockHTTPAdapter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockHTTPAdapter) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, batch := range m.sent {
		n += len(batch)
	}
	return n
}

func newTestAnalyticsClient(clock *fakeClock, recorder EventRecorder) *AnalyticsClient {
	return NewAnalyticsClient(AnalyticsConfig{
		UniqueID: "ABCDEFGHIJ",
		App:      AppDetails{PackageName: "com.example.game", VersionName: "1.2.0", VersionCode: "42", Title: "Game", AppID: "app-1"},
		Device:   DeviceDetails{Platform: "android", PlatformVersion: "14", Make: "Google", Model: "Pixel 8", Locale: "en_US", Carrier: "T-Mobile"},
		SDK:      SDKInfo{Name: "ripple-go", Version: "0.1.0"},
		Logger:   adapters.NewNoOpLoggerAdapter(),
		Clock:    clock.Now,
	}, recorder)
}
