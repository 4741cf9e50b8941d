package ripple

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// SessionStatus is the state of a Session.
type SessionStatus int

const (
	// SessionActive means the session has no stop time.
	SessionActive SessionStatus = iota
	// SessionPaused means the session carries a stop time.
	SessionPaused
)

func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionPaused:
		return "paused"
	default:
		return "unknown"
	}
}

const (
	sessionIDUniqueIDLength = 8
	sessionIDPadChar        = "_"

	// noStopTime encodes an active session's stop_time in serialized snapshots.
	noStopTime = math.MinInt64
)

// Session is a bounded interval of user engagement. It is owned by a
// SessionClient and is not safe for concurrent use on its own.
type Session struct {
	id     string
	start  int64
	status SessionStatus
	stop   int64 // only meaningful while status is SessionPaused
	now    func() time.Time
}

// NewSession starts an active session at the current time of now.
func NewSession(uniqueID string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	start := now().UnixMilli()
	return &Session{
		id:     GenerateSessionID(uniqueID, start),
		start:  start,
		status: SessionActive,
		now:    now,
	}
}

// GenerateSessionID builds "<uniqueId:8>-<yyyyMMdd>-<HHmmssSSS>" in UTC.
// Short unique ids are left-padded with "_"; long ones keep their last 8 characters.
func GenerateSessionID(uniqueID string, startMillis int64) string {
	t := time.UnixMilli(startMillis).UTC()
	return fmt.Sprintf("%s-%s-%s%03d",
		trimOrPad(uniqueID, sessionIDUniqueIDLength),
		t.Format("20060102"),
		t.Format("150405"),
		t.Nanosecond()/int(time.Millisecond),
	)
}

func trimOrPad(s string, n int) string {
	count := utf8.RuneCountInString(s)
	if count < n {
		return strings.Repeat(sessionIDPadChar, n-count) + s
	}
	runes := []rune(s)
	return string(runes[len(runes)-n:])
}

func (s *Session) ID() string {
	return s.id
}

// StartTime returns the start in epoch milliseconds.
func (s *Session) StartTime() int64 {
	return s.start
}

// StopTime returns the pause time in epoch milliseconds, if paused.
func (s *Session) StopTime() (int64, bool) {
	if s.status == SessionPaused {
		return s.stop, true
	}
	return 0, false
}

func (s *Session) Status() SessionStatus {
	return s.status
}

func (s *Session) IsPaused() bool {
	return s.status == SessionPaused
}

// Pause records the stop time. Pausing a paused session keeps the first stop time.
func (s *Session) Pause() {
	if s.status == SessionActive {
		s.stop = s.now().UnixMilli()
		s.status = SessionPaused
	}
}

// Resume clears the stop time regardless of the current state.
func (s *Session) Resume() {
	s.stop = 0
	s.status = SessionActive
}

// Duration returns the elapsed milliseconds up to the stop time, or up to now
// while active. Clock skew never yields a negative value.
func (s *Session) Duration() int64 {
	end := s.stop
	if s.status == SessionActive {
		end = s.now().UnixMilli()
	}
	if d := end - s.start; d > 0 {
		return d
	}
	return 0
}

type sessionJSON struct {
	SessionID string       `json:"session_id"`
	StartTime millisField  `json:"start_time"`
	StopTime  *millisField `json:"stop_time,omitempty"`
}

// millisField decodes epoch milliseconds written either as a JSON number or as
// a decimal string.
type millisField int64

func (m *millisField) UnmarshalJSON(data []byte) error {
	text := string(data)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millis value: %w", err)
	}
	*m = millisField(v)
	return nil
}

// MarshalJSON writes {session_id, start_time, stop_time}; an active session
// carries math.MinInt64 as its stop_time.
func (s *Session) MarshalJSON() ([]byte, error) {
	stop := millisField(noStopTime)
	if s.status == SessionPaused {
		stop = millisField(s.stop)
	}
	return json.Marshal(sessionJSON{
		SessionID: s.id,
		StartTime: millisField(s.start),
		StopTime:  &stop,
	})
}

// UnmarshalJSON restores a snapshot. A missing or sentinel stop_time restores
// an active session.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.SessionID == "" {
		return errors.New("session_id is required")
	}
	s.id = raw.SessionID
	s.start = int64(raw.StartTime)
	s.status = SessionActive
	s.stop = 0
	if raw.StopTime != nil && int64(*raw.StopTime) != noStopTime {
		s.status = SessionPaused
		s.stop = int64(*raw.StopTime)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return nil
}

// String returns the serialized snapshot, or "" if it cannot be encoded.
func (s *Session) String() string {
	data, err := s.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseSession decodes a snapshot produced by Session.String.
func ParseSession(serialized string, now func() time.Time) (*Session, error) {
	s := &Session{now: now}
	if err := json.Unmarshal([]byte(serialized), s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return s, nil
}
