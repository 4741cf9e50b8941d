package adapters

import "encoding/json"

// Record is one encoded analytics event as held by a StorageAdapter.
type Record struct {
	ID        int64           `json:"id"`
	EventID   string          `json:"eventId"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"createdAt"`
}

// Size returns the number of bytes the record counts against the storage cap.
func (r Record) Size() int64 {
	return int64(len(r.Payload))
}

// StorageQuotaExceededError is returned when a record would push the stored
// bytes past the configured cap.
type StorageQuotaExceededError struct {
	Message string
}

func (e *StorageQuotaExceededError) Error() string {
	if e.Message == "" {
		return "storage quota exceeded"
	}
	return e.Message
}
