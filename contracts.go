package inappmsg

import (
	"context"

	"github.com/opd-ai/inappmsg/message"
	"github.com/opd-ai/inappmsg/trigger"
)

// Handle identifies one presentation lifecycle. The gateway passes it back
// on dismissal and action callbacks; callbacks carrying a superseded handle
// are ignored, which makes each lifecycle event effectively exactly-once.
type Handle string

// ClickAction describes a user action on a presented message.
type ClickAction struct {
	// ClickID uniquely identifies the clicked element for dedup purposes.
	// When empty, the engine derives one from the message and element ids.
	ClickID string
	// ElementID names the clicked button or image within the message.
	ElementID string
	// ActionID names the configured action to perform, if any.
	ActionID string
	// URL is the destination to open, if any.
	URL string
	// FirstClick is set by the engine: true on the first action of the
	// message's current attribution window, false afterwards.
	FirstClick bool
}

// PresentationGateway renders messages. Present, Dismiss, and TearDown are
// always invoked on the engine's interaction dispatch context; the gateway
// calls Engine.OnDismissed and Engine.OnActionSelected exactly once per
// lifecycle event from that same context.
type PresentationGateway interface {
	// Present renders the resolved content variant of a message.
	Present(handle Handle, msg *message.Message, variantID string)
	// Dismiss requests that the presentation identified by handle end.
	// The gateway confirms via Engine.OnDismissed.
	Dismiss(handle Handle)
	// TearDown releases the rendering surface; the queue is empty.
	TearDown()
}

// AnalyticsReporter performs the network calls recording impressions and
// clicks. Calls block until the backend answers; the engine guarantees at
// most one in-flight call per message id (impressions) and per click id
// (clicks).
type AnalyticsReporter interface {
	ReportImpression(ctx context.Context, appID, userID, messageID, variantID string) error
	ReportClick(ctx context.Context, appID, userID, messageID, variantID string, action ClickAction) error
}

// Engine is the public contract of the messaging controller. Two variants
// exist: the ActiveEngine and the NoopEngine for hosts without rendering
// capability. The variant is selected once at construction by New; callers
// never branch on capability per call.
type Engine interface {
	// SetTriggers merges the values into the trigger store and re-scans.
	SetTriggers(values map[string]any)
	// RemoveTriggers deletes the keys from the trigger store and re-scans.
	RemoveTriggers(keys []string)
	// GetTriggers returns a copy of the current trigger mapping.
	GetTriggers() map[string]trigger.Value
	// GetTriggerValue returns one trigger value and whether it is present.
	GetTriggerValue(key string) (trigger.Value, bool)
	// SetMessagingPaused suppresses queueing and presentation while true.
	// Unpausing re-scans so latent qualifying messages surface immediately.
	// Pausing never dismisses an in-flight presentation.
	SetMessagingPaused(paused bool)
	// IsMessagingPaused reports the paused flag.
	IsMessagingPaused() bool
	// UpdateMessageSet replaces the candidate set and re-scans. Malformed
	// messages are dropped with a warning.
	UpdateMessageSet(messages []*message.Message)
	// PresentPreview shows a preview message immediately, ahead of the
	// natural queue order, bypassing dedup and analytics.
	PresentPreview(msg *message.Message)
	// OnDismissed is the gateway's confirmation that a presentation ended.
	OnDismissed(handle Handle)
	// OnActionSelected is the gateway's notification of a user action on
	// the current presentation.
	OnActionSelected(handle Handle, action ClickAction)
	// Close stops the engine's background processing. Operations after
	// Close are no-ops.
	Close() error
}
