// Package service orchestrates one request each: fetch external data, run the
// pure engine functions, and shape the response envelope. Services hold only
// read-only collaborators, so one instance serves all requests concurrently.
package service

import "context"

// Event channels published to connected websocket clients.
const (
	EventAnalysis = "analysis"
	EventOrder    = "orders"
	EventPair     = "positions"
)

// EventPublisher fans an event out to streaming subscribers. Implementations
// must not block the request path.
type EventPublisher interface {
	Publish(channel string, payload any)
}

// Alerter delivers operator notifications. Failures are logged, never
// surfaced to the API caller.
type Alerter interface {
	Notify(ctx context.Context, event, title, message string) error
}

// noopPublisher is used when no websocket hub is wired.
type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

// noopAlerter is used when no notification channel is configured.
type noopAlerter struct{}

func (noopAlerter) Notify(context.Context, string, string, string) error { return nil }

func orPublisher(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

func orAlerter(a Alerter) Alerter {
	if a == nil {
		return noopAlerter{}
	}
	return a
}
