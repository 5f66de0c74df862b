// Package metrics delivers analytics events without blocking callers.
package metrics

import (
	"context"
	"strings"
	"time"
)

// Referrer identifies the dapp that triggered an event.
type Referrer struct {
	URL string `json:"url"`
}

// Event is a single analytics record.
type Event struct {
	Event         string                 `json:"event"`
	Category      string                 `json:"category"`
	Referrer      *Referrer              `json:"referrer,omitempty"`
	Properties    map[string]interface{} `json:"properties,omitempty"`
	MetaMetricsID string                 `json:"metaMetricsId,omitempty"`
	MessageID     string                 `json:"messageId"`
	Timestamp     time.Time              `json:"timestamp"`
}

// Options tune how an event is attributed.
type Options struct {
	// ExcludeMetaMetricsID sends the event anonymously.
	ExcludeMetaMetricsID bool
}

// Sink accepts events. Implementations must not block on delivery.
type Sink interface {
	Track(ctx context.Context, event Event, opts Options) error
}

// Publisher delivers an encoded event to a backend.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// ShouldEmitDappViewedEvent reports whether the wallet has opted in to
// metrics. Opted-out wallets carry no metrics id.
func ShouldEmitDappViewedEvent(metaMetricsID string) bool {
	return strings.TrimSpace(metaMetricsID) != ""
}
