package ripple

import (
	"encoding/json"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

const (
	// MaxEventTypeLength is the longest accepted event type, in characters.
	MaxEventTypeLength = 50
	// MaxAttributeKeyLength applies to attribute and metric names.
	MaxAttributeKeyLength = 50
	// MaxAttributeValueLength applies to attribute values.
	MaxAttributeValueLength = 1000
	// MaxEventEnrichments caps attributes plus metrics on one event.
	MaxEventEnrichments = 50
)

// EventSession is the session snapshot embedded in an event.
type EventSession struct {
	ID       string
	Start    int64
	Stop     *int64
	Duration *int64
}

func (s EventSession) clone() EventSession {
	out := EventSession{ID: s.ID, Start: s.Start}
	if s.Stop != nil {
		v := *s.Stop
		out.Stop = &v
	}
	if s.Duration != nil {
		v := *s.Duration
		out.Duration = &v
	}
	return out
}

// Event is a typed, timestamped analytics record. Its identity and metadata
// are fixed at creation; attributes and metrics may be added until the event
// is recorded, up to MaxEventEnrichments in total. Event is safe for
// concurrent use.
type Event struct {
	id        string
	eventType string
	timestamp int64
	session   EventSession
	uniqueID  string
	app       AppDetails
	device    DeviceDetails
	sdk       SDKInfo
	logger    adapters.LoggerAdapter

	mu         sync.Mutex
	attributes map[string]string
	metrics    map[string]float64
}

type eventParams struct {
	id        string
	eventType string
	timestamp int64
	session   EventSession
	uniqueID  string
	app       AppDetails
	device    DeviceDetails
	sdk       SDKInfo
	logger    adapters.LoggerAdapter
}

func newEvent(p eventParams) *Event {
	logger := p.logger
	if logger == nil {
		logger = adapters.NewNoOpLoggerAdapter()
	}
	return &Event{
		id:         p.id,
		eventType:  p.eventType,
		timestamp:  p.timestamp,
		session:    p.session.clone(),
		uniqueID:   p.uniqueID,
		app:        p.app,
		device:     p.device,
		sdk:        p.sdk,
		logger:     logger,
		attributes: make(map[string]string),
		metrics:    make(map[string]float64),
	}
}

// rebind returns an independent copy with a new timestamp and session id/start.
// The event id, stop time, duration and enrichments carry over.
func (e *Event) rebind(timestamp int64, sessionID string, sessionStart int64) *Event {
	session := e.session.clone()
	session.ID = sessionID
	session.Start = sessionStart

	out := newEvent(eventParams{
		id:        e.id,
		eventType: e.eventType,
		timestamp: timestamp,
		session:   session,
		uniqueID:  e.uniqueID,
		app:       e.app,
		device:    e.device,
		sdk:       e.sdk,
		logger:    e.logger,
	})
	out.attributes = e.Attributes()
	out.metrics = e.Metrics()
	return out
}

func (e *Event) EventID() string       { return e.id }
func (e *Event) EventType() string     { return e.eventType }
func (e *Event) Timestamp() int64      { return e.timestamp }
func (e *Event) UniqueID() string      { return e.uniqueID }
func (e *Event) App() AppDetails       { return e.app }
func (e *Event) Device() DeviceDetails { return e.device }
func (e *Event) SDK() SDKInfo          { return e.sdk }
func (e *Event) Session() EventSession { return e.session.clone() }

// AddAttribute stores name=value. An empty name is ignored and an empty value
// removes the attribute. Long keys and values are truncated; once the event
// holds MaxEventEnrichments entries further adds are dropped.
func (e *Event) AddAttribute(name, value string) {
	if name == "" {
		return
	}
	if value == "" {
		e.RemoveAttribute(name)
		return
	}

	key, keyTruncated := truncate(name, MaxAttributeKeyLength)
	val, valueTruncated := truncate(value, MaxAttributeValueLength)

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.attributes)+len(e.metrics) >= MaxEventEnrichments {
		e.logger.Warn("Max number of attributes/metrics reached, dropping attribute %q", key)
		return
	}
	if keyTruncated {
		e.logger.Warn("Attribute key truncated to %d characters: %q", MaxAttributeKeyLength, key)
	}
	if valueTruncated {
		e.logger.Warn("Value of attribute %q truncated to %d characters", key, MaxAttributeValueLength)
	}
	e.attributes[key] = val
}

// AddMetric stores name=value under the same rules as AddAttribute. Values
// that cannot be encoded (NaN, ±Inf) are dropped.
func (e *Event) AddMetric(name string, value float64) {
	if name == "" {
		return
	}
	key, keyTruncated := truncate(name, MaxAttributeKeyLength)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		e.logger.Warn("Metric %q has a non-finite value, dropping", key)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.attributes)+len(e.metrics) >= MaxEventEnrichments {
		e.logger.Warn("Max number of attributes/metrics reached, dropping metric %q", key)
		return
	}
	if keyTruncated {
		e.logger.Warn("Metric key truncated to %d characters: %q", MaxAttributeKeyLength, key)
	}
	e.metrics[key] = value
}

func (e *Event) RemoveAttribute(name string) {
	key, _ := truncate(name, MaxAttributeKeyLength)
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.attributes, key)
}

func (e *Event) RemoveMetric(name string) {
	key, _ := truncate(name, MaxAttributeKeyLength)
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.metrics, key)
}

func (e *Event) HasAttribute(name string) bool {
	_, ok := e.Attribute(name)
	return ok
}

func (e *Event) HasMetric(name string) bool {
	_, ok := e.Metric(name)
	return ok
}

func (e *Event) Attribute(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attributes[name]
	return v, ok
}

func (e *Event) Metric(name string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.metrics[name]
	return v, ok
}

// Attributes returns a copy of the attributes.
func (e *Event) Attributes() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.attributes))
	for k, v := range e.attributes {
		out[k] = v
	}
	return out
}

// Metrics returns a copy of the metrics.
func (e *Event) Metrics() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.metrics))
	for k, v := range e.metrics {
		out[k] = v
	}
	return out
}

// truncate shortens s to at most n characters and reports whether it did.
func truncate(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	return string([]rune(s)[:n]), true
}

type eventSessionWire struct {
	ID             string `json:"id"`
	StartTimestamp int64  `json:"startTimestamp"`
	StopTimestamp  *int64 `json:"stopTimestamp,omitempty"`
	Duration       *int64 `json:"duration,omitempty"`
}

// eventWire is the storage and transport format. Field order is the key order.
type eventWire struct {
	EventID         string             `json:"event_id"`
	EventType       string             `json:"event_type"`
	UniqueID        string             `json:"unique_id"`
	Timestamp       int64              `json:"timestamp"`
	Platform        string             `json:"platform"`
	PlatformVersion string             `json:"platform_version"`
	Make            string             `json:"make"`
	Model           string             `json:"model"`
	Locale          string             `json:"locale"`
	Carrier         string             `json:"carrier"`
	Session         eventSessionWire   `json:"session"`
	SDKVersion      string             `json:"sdk_version"`
	SDKName         string             `json:"sdk_name"`
	AppVersionName  string             `json:"app_version_name"`
	AppVersionCode  string             `json:"app_version_code"`
	AppPackageName  string             `json:"app_package_name"`
	AppTitle        string             `json:"app_title"`
	AppID           string             `json:"app_id"`
	Attributes      map[string]string  `json:"attributes,omitempty"`
	Metrics         map[string]float64 `json:"metrics,omitempty"`
}

func (e *Event) MarshalJSON() ([]byte, error) {
	session := e.session.clone()
	return json.Marshal(eventWire{
		EventID:         e.id,
		EventType:       e.eventType,
		UniqueID:        e.uniqueID,
		Timestamp:       e.timestamp,
		Platform:        e.device.Platform,
		PlatformVersion: e.device.PlatformVersion,
		Make:            e.device.Make,
		Model:           e.device.Model,
		Locale:          e.device.Locale,
		Carrier:         e.device.Carrier,
		Session: eventSessionWire{
			ID:             session.ID,
			StartTimestamp: session.Start,
			StopTimestamp:  session.Stop,
			Duration:       session.Duration,
		},
		SDKVersion:     e.sdk.Version,
		SDKName:        e.sdk.Name,
		AppVersionName: e.app.VersionName,
		AppVersionCode: e.app.VersionCode,
		AppPackageName: e.app.PackageName,
		AppTitle:       e.app.Title,
		AppID:          e.app.AppID,
		Attributes:     e.Attributes(),
		Metrics:        e.Metrics(),
	})
}

// UnmarshalJSON restores an event from its wire form. Enrichment limits are
// not re-applied; the stored form already honors them.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	restored := newEvent(eventParams{
		id:        w.EventID,
		eventType: w.EventType,
		timestamp: w.Timestamp,
		session: EventSession{
			ID:       w.Session.ID,
			Start:    w.Session.StartTimestamp,
			Stop:     w.Session.StopTimestamp,
			Duration: w.Session.Duration,
		},
		uniqueID: w.UniqueID,
		app: AppDetails{
			PackageName: w.AppPackageName,
			VersionName: w.AppVersionName,
			VersionCode: w.AppVersionCode,
			Title:       w.AppTitle,
			AppID:       w.AppID,
		},
		device: DeviceDetails{
			Platform:        w.Platform,
			PlatformVersion: w.PlatformVersion,
			Make:            w.Make,
			Model:           w.Model,
			Locale:          w.Locale,
			Carrier:         w.Carrier,
		},
		sdk:    SDKInfo{Name: w.SDKName, Version: w.SDKVersion},
		logger: e.logger,
	})
	for k, v := range w.Attributes {
		restored.attributes[k] = v
	}
	for k, v := range w.Metrics {
		restored.metrics[k] = v
	}

	e.id = restored.id
	e.eventType = restored.eventType
	e.timestamp = restored.timestamp
	e.session = restored.session
	e.uniqueID = restored.uniqueID
	e.app = restored.app
	e.device = restored.device
	e.sdk = restored.sdk
	e.logger = restored.logger
	e.mu.Lock()
	e.attributes = restored.attributes
	e.metrics = restored.metrics
	e.mu.Unlock()
	return nil
}

// DecodeEvent parses one stored or transported event.
func DecodeEvent(data []byte) (*Event, error) {
	e := &Event{}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, err
	}
	return e, nil
}
