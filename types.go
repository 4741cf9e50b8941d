package ripple

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

// Re-export adapter types for convenience
type (
	Record              = adapters.Record
	HTTPAdapter         = adapters.HTTPAdapter
	HTTPResponse        = adapters.HTTPResponse
	StorageAdapter      = adapters.StorageAdapter
	PreferencesAdapter  = adapters.PreferencesAdapter
	ConnectivityAdapter = adapters.ConnectivityAdapter
	LoggerAdapter       = adapters.LoggerAdapter
	LogLevel            = adapters.LogLevel
)

// ErrInvalidArgument reports a call-site contract violation, such as an
// empty or over-long event type.
var ErrInvalidArgument = errors.New("invalid argument")

type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP request failed with status %d", e.Status)
}

// EventRecorder persists enriched events and submits them to the backend.
type EventRecorder interface {
	// RecordEvent stores one event. Events beyond the storage cap are dropped.
	RecordEvent(event *Event)
	// SubmitEvents starts an asynchronous flush of stored events. It is a
	// no-op while offline.
	SubmitEvents()
	// AllEvents returns every stored event in its wire form.
	AllEvents() []json.RawMessage
	// Close releases the underlying storage.
	Close() error
}

// DefaultMaxStorageSize is the on-device cap for stored events (5 MiB).
const DefaultMaxStorageSize int64 = 5 << 20

type ClientConfig struct {
	AppID            string        `env:"RIPPLE_APP_ID"`
	Endpoint         string        `env:"RIPPLE_ENDPOINT"`
	APIKey           string        `env:"RIPPLE_API_KEY"`
	APIKeyHeader     string        `env:"RIPPLE_API_KEY_HEADER" envDefault:"X-API-Key"`
	UniqueID         string        `env:"RIPPLE_UNIQUE_ID"`
	TargetingEnabled bool          `env:"RIPPLE_TARGETING_ENABLED"`
	DatabasePath     string        `env:"RIPPLE_DATABASE_PATH" envDefault:"ripple_events.db"`
	MaxStorageSize   int64         `env:"RIPPLE_MAX_STORAGE_SIZE" envDefault:"5242880"`
	MaxBatchSize     int           `env:"RIPPLE_MAX_BATCH_SIZE" envDefault:"100"`
	// MaxRetries of zero means the default of 3; a negative value disables retries.
	MaxRetries       int           `env:"RIPPLE_MAX_RETRIES" envDefault:"3"`
	SubmitInterval   time.Duration `env:"RIPPLE_SUBMIT_INTERVAL"`
	LogLevel         string        `env:"RIPPLE_LOG_LEVEL" envDefault:"WARN"`

	App    AppDetails
	Device DeviceDetails
	SDK    SDKInfo

	// Optional adapters. A nil StorageAdapter opens SQLite at DatabasePath,
	// which also serves as the PreferencesAdapter when none is given.
	HTTPAdapter         HTTPAdapter
	StorageAdapter      StorageAdapter
	PreferencesAdapter  PreferencesAdapter
	ConnectivityAdapter ConnectivityAdapter
	LoggerAdapter       LoggerAdapter

	// Clock defaults to time.Now.
	Clock func() time.Time
}

type RecorderConfig struct {
	Endpoint       string
	Headers        map[string]string
	MaxStorageSize int64
	MaxBatchSize   int
	MaxRetries     int
	// SubmitInterval enables periodic flushing when positive.
	SubmitInterval time.Duration
	// RetryBaseDelay is doubled on every retry; zero means one second.
	RetryBaseDelay time.Duration
}

type AnalyticsConfig struct {
	UniqueID string
	App      AppDetails
	Device   DeviceDetails
	SDK      SDKInfo
	Logger   LoggerAdapter
	Clock    func() time.Time

	// Registries may be shared or pre-populated; nil creates empty ones.
	Attributes *Registry[string]
	Metrics    *Registry[float64]
}

type SessionClientConfig struct {
	Preferences      PreferencesAdapter
	Logger           LoggerAdapter
	Clock            func() time.Time
	TargetingEnabled bool
}
