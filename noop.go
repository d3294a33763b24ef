package inappmsg

import (
	"github.com/opd-ai/inappmsg/message"
	"github.com/opd-ai/inappmsg/trigger"
)

// NoopEngine implements Engine for hosts that cannot render in-app messages.
// Every operation is a no-op returning neutral results: nothing is queued,
// evaluated, persisted, or reported. It is selected once by New via the
// capability probe, never branched on per call.
type NoopEngine struct{}

var _ Engine = (*NoopEngine)(nil)

// NewNoopEngine creates the inert engine variant.
func NewNoopEngine() *NoopEngine {
	return &NoopEngine{}
}

// SetTriggers does nothing.
func (n *NoopEngine) SetTriggers(values map[string]any) {}

// RemoveTriggers does nothing.
func (n *NoopEngine) RemoveTriggers(keys []string) {}

// GetTriggers returns an empty mapping.
func (n *NoopEngine) GetTriggers() map[string]trigger.Value {
	return map[string]trigger.Value{}
}

// GetTriggerValue reports every key as absent.
func (n *NoopEngine) GetTriggerValue(key string) (trigger.Value, bool) {
	return trigger.Value{}, false
}

// SetMessagingPaused does nothing.
func (n *NoopEngine) SetMessagingPaused(paused bool) {}

// IsMessagingPaused always reports unpaused.
func (n *NoopEngine) IsMessagingPaused() bool {
	return false
}

// UpdateMessageSet does nothing.
func (n *NoopEngine) UpdateMessageSet(messages []*message.Message) {}

// PresentPreview does nothing.
func (n *NoopEngine) PresentPreview(msg *message.Message) {}

// OnDismissed does nothing.
func (n *NoopEngine) OnDismissed(handle Handle) {}

// OnActionSelected does nothing.
func (n *NoopEngine) OnActionSelected(handle Handle, action ClickAction) {}

// Close does nothing.
func (n *NoopEngine) Close() error {
	return nil
}
