package domain

import (
	"encoding/json"
	"time"
)

// APILog records one outbound call to the payment provider for developer debugging
type APILog struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Method      string          `json:"method"`
	URL         string          `json:"url"`
	RequestBody json.RawMessage `json:"requestBody,omitempty"`
	Response    json.RawMessage `json:"response"`
	Status      int             `json:"status"`
}
