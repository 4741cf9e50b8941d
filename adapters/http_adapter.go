package adapters

import (
	"context"
	"encoding/json"
)

// HTTPResponse represents the response from an HTTP request.
type HTTPResponse struct {
	OK     bool
	Status int
}

// HTTPAdapter is an interface for HTTP communication.
// Implement this interface to use custom HTTP clients or request signing.
type HTTPAdapter interface {
	// Send events to the specified endpoint.
	//
	// Parameters:
	//   - ctx: Cancels the in-flight request
	//   - endpoint: The API endpoint URL
	//   - events: Encoded events, sent verbatim
	//   - headers: Optional custom headers to merge with defaults
	//
	// Returns HTTP response or error.
	Send(ctx context.Context, endpoint string, events []json.RawMessage, headers map[string]string) (*HTTPResponse, error)
}
