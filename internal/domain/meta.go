package domain

import "time"

// Meta is the metadata block attached to every API response.
type Meta struct {
	Timestamp       string `json:"timestamp"` // RFC 3339 / ISO-8601
	ExecutionTimeMs int64  `json:"execution_time_ms"`
	ModelUsed       string `json:"model_used,omitempty"`
	Retries         int    `json:"retries"`
}

// NewMeta builds a Meta for a request that started at start. model may be
// empty for endpoints that never touch an AI provider.
func NewMeta(start time.Time, model string, retries int) Meta {
	return Meta{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		ModelUsed:       model,
		Retries:         retries,
	}
}
