package ledger

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/inappmsg/storage"
)

// Ledger owns the three dedup sets. All membership checks and mutations run
// under one lock, making check-then-add atomic. Persistence is best-effort:
// a failed save is logged and the in-memory set stays authoritative for the
// session.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store

	seen         map[string]struct{}
	impressioned map[string]struct{}
	clicked      map[string]struct{}

	// pending tracks optimistic entries whose report is still in flight;
	// Settle consults it so duplicate completions are no-ops.
	pendingImpressions map[string]struct{}
	pendingClicks      map[string]struct{}
}

// New creates a ledger mirrored into store, reloading the persisted sets. A
// load failure degrades to an empty set with a warning; dedup history is
// then rebuilt going forward.
func New(store storage.Store) *Ledger {
	l := &Ledger{
		store:              store,
		pendingImpressions: make(map[string]struct{}),
		pendingClicks:      make(map[string]struct{}),
	}
	l.seen = loadSet(store, storage.KeySeen)
	l.impressioned = loadSet(store, storage.KeyImpressioned)
	l.clicked = loadSet(store, storage.KeyClicked)

	logrus.WithFields(logrus.Fields{
		"function":     "New",
		"seen":         len(l.seen),
		"impressioned": len(l.impressioned),
		"clicked":      len(l.clicked),
	}).Debug("Dedup ledger loaded")

	return l
}

func loadSet(store storage.Store, key string) map[string]struct{} {
	set, err := store.LoadSet(key)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "loadSet",
			"key":      key,
			"error":    err,
		}).Warn("Failed to load persisted set, starting empty")
		return make(map[string]struct{})
	}
	if set == nil {
		set = make(map[string]struct{})
	}
	return set
}

// HasSeen reports whether the message id is in the seen set.
func (l *Ledger) HasSeen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[id]
	return ok
}

// MarkSeen adds the message id to the seen set and persists it.
func (l *Ledger) MarkSeen(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[id]; ok {
		return
	}
	l.seen[id] = struct{}{}
	l.persistLocked(storage.KeySeen, l.seen)

	logrus.WithFields(logrus.Fields{
		"function":   "MarkSeen",
		"message_id": id,
	}).Debug("Message marked seen")
}

// HasImpressioned reports whether the message id is in the impressioned set,
// including optimistic in-flight entries.
func (l *Ledger) HasImpressioned(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.impressioned[id]
	return ok
}

// HasClicked reports whether the click id is in the clicked set, including
// optimistic in-flight entries.
func (l *Ledger) HasClicked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.clicked[id]
	return ok
}

// BeginImpression optimistically adds the message id to the impressioned set
// before its report goes out. It returns false when the id is already a
// member (reported earlier or currently in flight), in which case no report
// must be issued.
func (l *Ledger) BeginImpression(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.impressioned[id]; ok {
		return false
	}
	l.impressioned[id] = struct{}{}
	l.pendingImpressions[id] = struct{}{}
	return true
}

// SettleImpression completes an optimistic impression entry. Success persists
// the set; failure rolls the entry back so a later presentation may retry.
// Settling an id that is not pending is a no-op, so duplicate completions
// are harmless.
func (l *Ledger) SettleImpression(id string, success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pendingImpressions[id]; !ok {
		return
	}
	delete(l.pendingImpressions, id)

	if !success {
		delete(l.impressioned, id)
		logrus.WithFields(logrus.Fields{
			"function":   "SettleImpression",
			"message_id": id,
		}).Warn("Impression report failed, rolled back for retry")
		return
	}
	l.persistLocked(storage.KeyImpressioned, l.impressioned)
}

// BeginClick optimistically adds the click id to the clicked set before its
// report goes out. It returns false when the id is already a member.
func (l *Ledger) BeginClick(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.clicked[id]; ok {
		return false
	}
	l.clicked[id] = struct{}{}
	l.pendingClicks[id] = struct{}{}
	return true
}

// SettleClick completes an optimistic click entry, symmetric to
// SettleImpression.
func (l *Ledger) SettleClick(id string, success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pendingClicks[id]; !ok {
		return
	}
	delete(l.pendingClicks, id)

	if !success {
		delete(l.clicked, id)
		logrus.WithFields(logrus.Fields{
			"function": "SettleClick",
			"click_id": id,
		}).Warn("Click report failed, rolled back for retry")
		return
	}
	l.persistLocked(storage.KeyClicked, l.clicked)
}

// persistLocked mirrors a set into the store. Callers hold l.mu. Failures
// are logged; in-memory state stays authoritative.
func (l *Ledger) persistLocked(key string, set map[string]struct{}) {
	if err := l.store.SaveSet(key, set); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "persistLocked",
			"key":      key,
			"error":    err,
		}).Warn("Failed to persist set, keeping in-memory state")
	}
}
