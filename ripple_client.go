package ripple

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

// UniqueIDPreferencesKey holds the generated device unique id.
const UniqueIDPreferencesKey = "ripple.unique_id"

// Client wires the recorder, analytics and session clients together.
type Client struct {
	config    ClientConfig
	recorder  *Recorder
	analytics *AnalyticsClient
	sessions  *SessionClient
	logger    LoggerAdapter

	mu     sync.Mutex
	closed bool
}

// NewClient validates config, fills defaults and builds a ready client.
// Without a StorageAdapter the client opens SQLite at DatabasePath, which
// also serves preferences unless a PreferencesAdapter is given.
func NewClient(config ClientConfig) (*Client, error) {
	if config.AppID == "" {
		return nil, errors.New("appId must be provided in config")
	}
	if config.Endpoint == "" {
		return nil, errors.New("endpoint must be provided in config")
	}

	if config.APIKeyHeader == "" {
		config.APIKeyHeader = "X-API-Key"
	}
	if config.MaxStorageSize <= 0 {
		config.MaxStorageSize = DefaultMaxStorageSize
	}
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = 100
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.DatabasePath == "" {
		config.DatabasePath = "ripple_events.db"
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.SDK == (SDKInfo{}) {
		config.SDK = DefaultSDKInfo
	}
	if config.App.AppID == "" {
		config.App.AppID = config.AppID
	}

	logger := config.LoggerAdapter
	if logger == nil {
		logger = adapters.NewSlogLoggerAdapter(adapters.ParseLogLevel(config.LogLevel))
	}
	if locale, ok := canonicalLocale(config.Device.Locale); ok {
		config.Device.Locale = locale
	} else {
		logger.Warn("Keeping unrecognized device locale %q", config.Device.Locale)
	}

	httpAdapter := config.HTTPAdapter
	if httpAdapter == nil {
		httpAdapter = adapters.NewNetHTTPAdapter()
	}
	connectivity := config.ConnectivityAdapter
	if connectivity == nil {
		connectivity = adapters.NewStaticConnectivityAdapter(true)
	}

	storage := config.StorageAdapter
	preferences := config.PreferencesAdapter
	if storage == nil {
		db, err := adapters.OpenSQLiteStorageAdapter(config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open event store: %w", err)
		}
		storage = db
		if preferences == nil {
			preferences = db
		}
	}
	if preferences == nil {
		preferences = adapters.NewMemoryPreferencesAdapter()
	}

	uniqueID, err := resolveUniqueID(config.UniqueID, preferences)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	headers := map[string]string{}
	if config.APIKey != "" {
		headers[config.APIKeyHeader] = config.APIKey
	}

	recorder := NewRecorder(RecorderConfig{
		Endpoint:       config.Endpoint,
		Headers:        headers,
		MaxStorageSize: config.MaxStorageSize,
		MaxBatchSize:   config.MaxBatchSize,
		MaxRetries:     config.MaxRetries,
		SubmitInterval: config.SubmitInterval,
	}, httpAdapter, storage)
	recorder.SetLoggerAdapter(logger)
	recorder.SetConnectivityAdapter(connectivity)
	if err := recorder.Start(context.Background()); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("start recorder: %w", err)
	}

	analytics := NewAnalyticsClient(AnalyticsConfig{
		UniqueID: uniqueID,
		App:      config.App,
		Device:   config.Device,
		SDK:      config.SDK,
		Logger:   logger,
		Clock:    config.Clock,
	}, recorder)

	sessions := NewSessionClient(SessionClientConfig{
		Preferences:      preferences,
		Logger:           logger,
		Clock:            config.Clock,
		TargetingEnabled: config.TargetingEnabled,
	}, analytics)

	config.HTTPAdapter = httpAdapter
	config.StorageAdapter = storage
	config.PreferencesAdapter = preferences
	config.ConnectivityAdapter = connectivity
	config.LoggerAdapter = logger

	logger.Info("Client initialized successfully")
	return &Client{
		config:    config,
		recorder:  recorder,
		analytics: analytics,
		sessions:  sessions,
		logger:    logger,
	}, nil
}

// resolveUniqueID prefers the configured id, then a persisted one, and
// otherwise generates and persists a new UUID.
func resolveUniqueID(configured string, preferences PreferencesAdapter) (string, error) {
	if configured != "" {
		return configured, nil
	}
	stored, ok, err := preferences.GetString(UniqueIDPreferencesKey)
	if err != nil {
		return "", fmt.Errorf("read unique id: %w", err)
	}
	if ok && stored != "" {
		return stored, nil
	}
	generated := uuid.NewString()
	if err := preferences.PutString(UniqueIDPreferencesKey, generated); err != nil {
		return "", fmt.Errorf("save unique id: %w", err)
	}
	return generated, nil
}

func (c *Client) Analytics() *AnalyticsClient {
	return c.analytics
}

func (c *Client) Sessions() *SessionClient {
	return c.sessions
}

// Config returns the effective configuration, defaults included.
func (c *Client) Config() ClientConfig {
	return c.config
}

// Flush synchronously submits stored events.
func (c *Client) Flush(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return errors.New("client is closed")
	}
	return c.recorder.Flush(ctx)
}

// Close pauses an active session so the next client restores it, persists
// pending events and closes storage. Stored events are not submitted.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.logger.Info("Closing client")
	c.sessions.PauseSession()
	return c.recorder.Close()
}
