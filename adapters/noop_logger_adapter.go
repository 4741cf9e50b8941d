package adapters

// NoOpLoggerAdapter discards every message. Tests and hosts that route
// diagnostics elsewhere use it to silence the client.
type NoOpLoggerAdapter struct{}

var _ LoggerAdapter = NoOpLoggerAdapter{}

// NewNoOpLoggerAdapter creates a new no-op logger
func NewNoOpLoggerAdapter() NoOpLoggerAdapter {
	return NoOpLoggerAdapter{}
}

func (NoOpLoggerAdapter) Debug(message string, args ...any) {}
func (NoOpLoggerAdapter) Info(message string, args ...any)  {}
func (NoOpLoggerAdapter) Warn(message string, args ...any)  {}
func (NoOpLoggerAdapter) Error(message string, args ...any) {}
