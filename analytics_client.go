package ripple

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

// AnalyticsClient owns the global and per-event-type attributes and metrics,
// builds enriched events and hands recorded events to an EventRecorder.
// It is safe for concurrent use.
type AnalyticsClient struct {
	uniqueID string
	app      AppDetails
	device   DeviceDetails
	sdk      SDKInfo
	recorder EventRecorder
	logger   LoggerAdapter
	now      func() time.Time

	attributes *Registry[string]
	metrics    *Registry[float64]

	campaignMu         sync.Mutex
	campaignAttributes map[string]string

	sessionMu        sync.RWMutex
	sessionID        string
	sessionStartTime int64
}

// NewAnalyticsClient creates a client that forwards recorded events to recorder.
func NewAnalyticsClient(config AnalyticsConfig, recorder EventRecorder) *AnalyticsClient {
	c := &AnalyticsClient{
		uniqueID:           config.UniqueID,
		app:                config.App,
		device:             config.Device,
		sdk:                config.SDK,
		recorder:           recorder,
		logger:             config.Logger,
		now:                config.Clock,
		attributes:         config.Attributes,
		metrics:            config.Metrics,
		campaignAttributes: make(map[string]string),
	}
	if c.logger == nil {
		c.logger = adapters.NewSlogLoggerAdapter(adapters.LogLevelWarn)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.attributes == nil {
		c.attributes = NewRegistry[string]()
	}
	if c.metrics == nil {
		c.metrics = NewRegistry[float64]()
	}
	if c.sdk == (SDKInfo{}) {
		c.sdk = DefaultSDKInfo
	}
	return c
}

func (c *AnalyticsClient) UniqueID() string {
	return c.uniqueID
}

// SetSession points new and recorded events at the given session.
func (c *AnalyticsClient) SetSession(sessionID string, startTime int64) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.sessionID = sessionID
	c.sessionStartTime = startTime
}

func (c *AnalyticsClient) SessionID() string {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.sessionID
}

func (c *AnalyticsClient) SessionStartTime() int64 {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.sessionStartTime
}

func (c *AnalyticsClient) currentSession() (string, int64) {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.sessionID, c.sessionStartTime
}

// CreateEvent builds an event of eventType bound to the current session and
// enriched with the registered attributes and metrics. Global values are
// applied first, then per-type values, so per-type values win on collisions.
func (c *AnalyticsClient) CreateEvent(eventType string) (*Event, error) {
	sessionID, start := c.currentSession()
	return c.createEvent(eventType, EventSession{ID: sessionID, Start: start})
}

// createSessionEvent builds a lifecycle event carrying explicit session timing.
func (c *AnalyticsClient) createSessionEvent(eventType string, start int64, stop, duration *int64) (*Event, error) {
	return c.createEvent(eventType, EventSession{
		ID:       c.SessionID(),
		Start:    start,
		Stop:     stop,
		Duration: duration,
	})
}

func (c *AnalyticsClient) createEvent(eventType string, session EventSession) (*Event, error) {
	if eventType == "" {
		return nil, fmt.Errorf("%w: event type is required", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(eventType) > MaxEventTypeLength {
		return nil, fmt.Errorf("%w: event type exceeds %d characters", ErrInvalidArgument, MaxEventTypeLength)
	}

	event := newEvent(eventParams{
		id:        uuid.NewString(),
		eventType: eventType,
		timestamp: c.now().UnixMilli(),
		session:   session,
		uniqueID:  c.uniqueID,
		app:       c.app,
		device:    c.device,
		sdk:       c.sdk,
		logger:    c.logger,
	})

	applyAttributes(event, c.attributes.Global())
	applyAttributes(event, c.attributes.ForType(eventType))
	applyMetrics(event, c.metrics.Global())
	applyMetrics(event, c.metrics.ForType(eventType))
	return event, nil
}

// Keys are applied in sorted order so the enrichment cap keeps a stable subset.
func applyAttributes(event *Event, values map[string]string) {
	for _, k := range sortedKeys(values) {
		event.AddAttribute(k, values[k])
	}
}

func applyMetrics(event *Event, values map[string]float64) {
	for _, k := range sortedKeys(values) {
		event.AddMetric(k, values[k])
	}
}

// RecordEvent hands a copy of event to the recorder. The copy is stamped with
// the current time and bound to the current session; event itself is not
// persisted.
func (c *AnalyticsClient) RecordEvent(event *Event) {
	if event == nil {
		c.logger.Info("The provided event was nil")
		return
	}
	sessionID, start := c.currentSession()
	recorded := event.rebind(c.now().UnixMilli(), sessionID, start)
	c.logger.Debug("Recording event: %s", recorded.EventType())
	c.recorder.RecordEvent(recorded)
}

// SubmitEvents asks the recorder to flush stored events.
func (c *AnalyticsClient) SubmitEvents() {
	c.logger.Debug("Submitting events")
	c.recorder.SubmitEvents()
}

// AllEvents returns the recorder's stored events.
func (c *AnalyticsClient) AllEvents() []json.RawMessage {
	return c.recorder.AllEvents()
}

// AddGlobalAttribute applies name=value to every event created afterwards.
func (c *AnalyticsClient) AddGlobalAttribute(name, value string) {
	if name == "" || value == "" {
		c.logger.Warn("Attribute name and value must be non-empty, ignoring global attribute")
		return
	}
	c.attributes.Set(name, value)
}

// AddEventTypeAttribute applies name=value to events of eventType created afterwards.
func (c *AnalyticsClient) AddEventTypeAttribute(eventType, name, value string) {
	if eventType == "" || name == "" || value == "" {
		c.logger.Warn("Event type, attribute name and value must be non-empty, ignoring attribute")
		return
	}
	c.attributes.SetForType(eventType, name, value)
}

// AddGlobalMetric applies name=value to every event created afterwards.
func (c *AnalyticsClient) AddGlobalMetric(name string, value float64) {
	if name == "" {
		c.logger.Warn("Metric name must be non-empty, ignoring global metric")
		return
	}
	c.metrics.Set(name, value)
}

// AddEventTypeMetric applies name=value to events of eventType created afterwards.
func (c *AnalyticsClient) AddEventTypeMetric(eventType, name string, value float64) {
	if eventType == "" || name == "" {
		c.logger.Warn("Event type and metric name must be non-empty, ignoring metric")
		return
	}
	c.metrics.SetForType(eventType, name, value)
}

func (c *AnalyticsClient) RemoveGlobalAttribute(name string) {
	if name == "" {
		c.logger.Warn("Attribute name must be non-empty, nothing removed")
		return
	}
	c.attributes.Remove(name)
}

func (c *AnalyticsClient) RemoveEventTypeAttribute(eventType, name string) {
	if eventType == "" || name == "" {
		c.logger.Warn("Event type and attribute name must be non-empty, nothing removed")
		return
	}
	c.attributes.RemoveForType(eventType, name)
}

func (c *AnalyticsClient) RemoveGlobalMetric(name string) {
	if name == "" {
		c.logger.Warn("Metric name must be non-empty, nothing removed")
		return
	}
	c.metrics.Remove(name)
}

func (c *AnalyticsClient) RemoveEventTypeMetric(eventType, name string) {
	if eventType == "" || name == "" {
		c.logger.Warn("Event type and metric name must be non-empty, nothing removed")
		return
	}
	c.metrics.RemoveForType(eventType, name)
}

// GlobalAttributes returns a copy of the global attributes.
func (c *AnalyticsClient) GlobalAttributes() map[string]string {
	return c.attributes.Global()
}

// GlobalMetrics returns a copy of the global metrics.
func (c *AnalyticsClient) GlobalMetrics() map[string]float64 {
	return c.metrics.Global()
}

// SetCampaignAttributes replaces the campaign attribute set. The previous
// campaign keys leave the global attributes and the new ones are added.
func (c *AnalyticsClient) SetCampaignAttributes(campaign map[string]string) {
	if campaign == nil {
		c.logger.Warn("Campaign attributes map was nil, ignoring")
		return
	}
	c.campaignMu.Lock()
	defer c.campaignMu.Unlock()

	for name := range c.campaignAttributes {
		c.attributes.Remove(name)
	}
	c.campaignAttributes = make(map[string]string, len(campaign))
	for name, value := range campaign {
		if name == "" || value == "" {
			c.logger.Warn("Skipping campaign attribute with empty name or value")
			continue
		}
		c.campaignAttributes[name] = value
		c.attributes.Set(name, value)
	}
}

// CampaignAttributes returns a copy of the current campaign attribute set.
func (c *AnalyticsClient) CampaignAttributes() map[string]string {
	c.campaignMu.Lock()
	defer c.campaignMu.Unlock()
	return copyScope(c.campaignAttributes)
}

// ClearCampaignAttributes removes every campaign key from the global
// attributes and empties the campaign set.
func (c *AnalyticsClient) ClearCampaignAttributes() {
	c.campaignMu.Lock()
	defer c.campaignMu.Unlock()
	for name := range c.campaignAttributes {
		c.attributes.Remove(name)
	}
	c.campaignAttributes = make(map[string]string)
}

type analyticsClientJSON struct {
	UniqueID            string                        `json:"uniqueId"`
	GlobalAttributes    map[string]string             `json:"globalAttributes"`
	GlobalMetrics       map[string]float64            `json:"globalMetrics"`
	EventTypeAttributes map[string]map[string]string  `json:"eventTypeAttributes"`
	EventTypeMetrics    map[string]map[string]float64 `json:"eventTypeMetrics"`
}

// MarshalJSON emits a diagnostic snapshot of the registries.
func (c *AnalyticsClient) MarshalJSON() ([]byte, error) {
	return json.Marshal(analyticsClientJSON{
		UniqueID:            c.uniqueID,
		GlobalAttributes:    c.attributes.Global(),
		GlobalMetrics:       c.metrics.Global(),
		EventTypeAttributes: c.attributes.AllTypes(),
		EventTypeMetrics:    c.metrics.AllTypes(),
	})
}

// String returns the diagnostic snapshot as JSON.
func (c *AnalyticsClient) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		c.logger.Error("Failed to encode analytics client snapshot: %v", err)
		return "{}"
	}
	return string(data)
}
