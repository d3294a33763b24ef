package message

import (
	"errors"
	"strings"
	"sync"

	"github.com/opd-ai/inappmsg/trigger"
)

// DefaultChannel is the variant channel consulted when no platform-specific
// channel matches.
const DefaultChannel = "all"

// DefaultLocale is the variant locale consulted when no exact or
// language-prefix locale matches.
const DefaultLocale = "default"

// ErrNoVariant indicates a message carries no resolvable content variant.
var ErrNoVariant = errors.New("message has no content variant")

// Message is a single in-app message definition: content variants plus the
// trigger expression gating its display.
type Message struct {
	// ID is the stable, globally unique message identifier.
	ID string
	// Variants maps channel -> locale -> content variant id.
	Variants map[string]map[string]string
	// Triggers gates display; an empty expression always qualifies.
	Triggers trigger.Expression
	// Preview marks a message shown on demand, bypassing dedup and analytics.
	Preview bool

	mu          sync.Mutex
	actionTaken bool
}

// New constructs a message.
func New(id string, variants map[string]map[string]string, triggers trigger.Expression) *Message {
	return &Message{
		ID:       id,
		Variants: variants,
		Triggers: triggers,
	}
}

// NewPreview constructs a preview message. Previews carry no triggers; they
// are presented explicitly.
func NewPreview(id string, variants map[string]map[string]string) *Message {
	return &Message{
		ID:       id,
		Variants: variants,
		Preview:  true,
	}
}

// VariantID resolves the content variant for a channel and locale. The
// channel-specific map is consulted first, then the "all" channel; within a
// channel the exact locale wins, then the language prefix (en for en-US),
// then "default". The second result is false when nothing resolves.
func (m *Message) VariantID(channel, locale string) (string, bool) {
	for _, ch := range []string{channel, DefaultChannel} {
		byLocale, ok := m.Variants[ch]
		if !ok {
			continue
		}
		if id, ok := lookupLocale(byLocale, locale); ok {
			return id, true
		}
	}
	return "", false
}

// lookupLocale tries the exact locale, its language prefix, then the default
// locale.
func lookupLocale(byLocale map[string]string, locale string) (string, bool) {
	if id, ok := byLocale[locale]; ok && id != "" {
		return id, true
	}
	if i := strings.IndexByte(locale, '-'); i > 0 {
		if id, ok := byLocale[locale[:i]]; ok && id != "" {
			return id, true
		}
	}
	if id, ok := byLocale[DefaultLocale]; ok && id != "" {
		return id, true
	}
	return "", false
}

// Validate reports whether the message is well-formed enough to present: a
// non-empty id and at least one non-empty variant id.
func (m *Message) Validate() error {
	if m.ID == "" {
		return errors.New("message missing id")
	}
	for _, byLocale := range m.Variants {
		for _, id := range byLocale {
			if id != "" {
				return nil
			}
		}
	}
	return ErrNoVariant
}

// TakeFirstClick marks the message as acted on and reports whether this call
// was the first action since the last tracking reset. The check-and-set is
// atomic, so exactly one caller observes true per window.
func (m *Message) TakeFirstClick() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.actionTaken {
		return false
	}
	m.actionTaken = true
	return true
}

// ClearActionTaken resets the first-click attribution window. Invoked when
// the message is dismissed.
func (m *Message) ClearActionTaken() {
	m.mu.Lock()
	m.actionTaken = false
	m.mu.Unlock()
}
