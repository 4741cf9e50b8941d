package ripple

import (
	"sync"
	"time"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

// Lifecycle event types emitted by SessionClient.
const (
	SessionStartEventType  = "_session.start"
	SessionStopEventType   = "_session.stop"
	SessionPauseEventType  = "_session.pause"
	SessionResumeEventType = "_session.resume"
)

const (
	// SessionPreferencesKey holds the paused session snapshot.
	SessionPreferencesKey = "ripple.session"
	// NoSessionID marks events recorded with targeting enabled before any session exists.
	NoSessionID = "00000000-00000000"
)

// SessionClientState is derived from the held session, never stored.
type SessionClientState int

const (
	SessionClientInactive SessionClientState = iota
	SessionClientActive
	SessionClientPaused
)

func (s SessionClientState) String() string {
	switch s {
	case SessionClientInactive:
		return "INACTIVE"
	case SessionClientActive:
		return "ACTIVE"
	case SessionClientPaused:
		return "PAUSED"
	default:
		return "UNKNOWN"
	}
}

// SessionClient drives the session lifecycle and emits lifecycle events
// through an AnalyticsClient. Start, Stop, Pause and Resume are mutually
// exclusive. None of them return errors; failures are logged.
type SessionClient struct {
	analytics   *AnalyticsClient
	preferences PreferencesAdapter
	logger      LoggerAdapter
	now         func() time.Time

	mu      sync.Mutex
	session *Session
}

// NewSessionClient creates a client bound to analytics. A session snapshot
// persisted by an earlier PauseSession is restored in the paused state.
func NewSessionClient(config SessionClientConfig, analytics *AnalyticsClient) *SessionClient {
	c := &SessionClient{
		analytics:   analytics,
		preferences: config.Preferences,
		logger:      config.Logger,
		now:         config.Clock,
	}
	if c.preferences == nil {
		c.preferences = adapters.NewMemoryPreferencesAdapter()
	}
	if c.logger == nil {
		c.logger = adapters.NewSlogLoggerAdapter(adapters.LogLevelWarn)
	}
	if c.now == nil {
		c.now = time.Now
	}

	if restored := c.loadSession(); restored != nil {
		c.session = restored
		analytics.SetSession(restored.ID(), restored.StartTime())
		c.logger.Debug("Restored session %s", restored.ID())
	} else if config.TargetingEnabled {
		analytics.SetSession(NoSessionID, 0)
	}
	return c
}

func (c *SessionClient) loadSession() *Session {
	serialized, ok, err := c.preferences.GetString(SessionPreferencesKey)
	if err != nil {
		c.logger.Error("Failed to read saved session: %v", err)
		return nil
	}
	if !ok || serialized == "" {
		return nil
	}
	session, err := ParseSession(serialized, c.now)
	if err != nil {
		c.logger.Warn("Discarding unreadable saved session")
		return nil
	}
	// A snapshot is only written on pause.
	session.Pause()
	return session
}

// State reports INACTIVE, ACTIVE or PAUSED.
func (c *SessionClient) State() SessionClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *SessionClient) stateLocked() SessionClientState {
	switch {
	case c.session == nil:
		return SessionClientInactive
	case c.session.IsPaused():
		return SessionClientPaused
	default:
		return SessionClientActive
	}
}

// Session returns a snapshot of the held session, or nil when inactive.
func (c *SessionClient) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	snapshot := *c.session
	return &snapshot
}

// StartSession starts a new session, stopping the current one first.
func (c *SessionClient) StartSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.stopLocked()
	}
	c.session = NewSession(c.analytics.UniqueID(), c.now)
	c.analytics.SetSession(c.session.ID(), c.session.StartTime())
	c.logger.Info("Session started: %s", c.session.ID())
	c.emit(SessionStartEventType, c.session.StartTime(), nil, nil)
}

// StopSession ends the current session and scrubs campaign attributes.
func (c *SessionClient) StopSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		c.logger.Debug("Stop session requested with no session")
		return
	}
	c.stopLocked()
}

func (c *SessionClient) stopLocked() {
	session := c.session
	session.Pause()
	stop, _ := session.StopTime()
	duration := session.Duration()
	c.emit(SessionStopEventType, session.StartTime(), &stop, &duration)
	c.logger.Info("Session stopped: %s", session.ID())

	c.analytics.ClearCampaignAttributes()
	if err := c.preferences.Remove(SessionPreferencesKey); err != nil {
		c.logger.Error("Failed to remove saved session: %v", err)
	}
	c.session = nil
}

// PauseSession pauses an active session, saves its snapshot and emits the
// pause event. It does nothing unless the state is ACTIVE.
func (c *SessionClient) PauseSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stateLocked() != SessionClientActive {
		c.logger.Debug("Pause session requested while %s", c.stateLocked())
		return
	}
	c.session.Pause()
	if err := c.preferences.PutString(SessionPreferencesKey, c.session.String()); err != nil {
		c.logger.Error("Failed to save session: %v", err)
	}
	stop, _ := c.session.StopTime()
	duration := c.session.Duration()
	c.logger.Info("Session paused: %s", c.session.ID())
	c.emit(SessionPauseEventType, c.session.StartTime(), &stop, &duration)
}

// ResumeSession resumes a paused session. The resume event is emitted in
// every state; outside PAUSED the failure is only logged.
func (c *SessionClient) ResumeSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stateLocked() == SessionClientPaused {
		c.session.Resume()
		c.analytics.SetSession(c.session.ID(), c.session.StartTime())
		c.logger.Info("Session resumed: %s", c.session.ID())
	} else {
		c.logger.Error("Session resume failed: no paused session")
	}
	c.emit(SessionResumeEventType, c.analytics.SessionStartTime(), nil, nil)
}

func (c *SessionClient) emit(eventType string, start int64, stop, duration *int64) {
	event, err := c.analytics.createSessionEvent(eventType, start, stop, duration)
	if err != nil {
		c.logger.Error("Failed to create %s event: %v", eventType, err)
		return
	}
	c.analytics.RecordEvent(event)
}
