package inappmsg

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/inappmsg/ledger"
	"github.com/opd-ai/inappmsg/message"
	"github.com/opd-ai/inappmsg/queue"
	"github.com/opd-ai/inappmsg/storage"
	"github.com/opd-ai/inappmsg/trigger"
)

type reportKind uint8

const (
	reportImpression reportKind = iota
	reportClick
)

// completion is the event a finished reporter call posts back to the run
// loop, which is the only context that settles optimistic ledger entries.
type completion struct {
	kind    reportKind
	dedupID string
	err     error
}

// ActiveEngine is the messaging controller: it owns the display queue and
// the dedup ledger, re-scans candidates on every trigger or message-set
// change, and serializes presentation through the interaction dispatcher.
//
// All queue reads and writes, including the check-then-act around "is
// something currently presenting", happen under e.mu. The ledger carries its
// own lock; it is only ever acquired while holding e.mu or from the run
// loop, never the other way around.
type ActiveEngine struct {
	appID    string
	userID   string
	channel  string
	locale   string
	store    storage.Store
	gateway  PresentationGateway
	reporter AnalyticsReporter

	triggers *trigger.Store
	ledger   *ledger.Ledger
	dispatch *dispatcher

	mu             sync.Mutex
	queue          *queue.Queue
	candidates     []*message.Message
	current        *message.Message
	currentHandle  Handle
	currentVariant string
	paused         bool

	completions chan completion
	done        chan struct{}
	wg          sync.WaitGroup
	closed      atomic.Bool
}

var _ Engine = (*ActiveEngine)(nil)

func newActiveEngine(options *Options) *ActiveEngine {
	channel := options.Channel
	if channel == "" {
		channel = message.DefaultChannel
	}

	e := &ActiveEngine{
		appID:       options.AppID,
		userID:      options.UserID,
		channel:     channel,
		locale:      options.Locale,
		store:       options.Store,
		gateway:     options.Gateway,
		reporter:    options.Reporter,
		triggers:    trigger.NewStore(),
		ledger:      ledger.New(options.Store),
		dispatch:    newDispatcher(),
		queue:       queue.New(),
		completions: make(chan completion),
		done:        make(chan struct{}),
	}

	paused, err := options.Store.LoadBool(storage.KeyPaused, false)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "newActiveEngine",
			"error":    err,
		}).Warn("Failed to load paused flag, defaulting to unpaused")
		paused = false
	}
	e.paused = paused

	e.triggers.SetListener(e.onTriggersChanged)

	e.wg.Add(1)
	go e.run()

	logrus.WithFields(logrus.Fields{
		"function": "newActiveEngine",
		"app_id":   e.appID,
		"paused":   e.paused,
	}).Info("In-app messaging engine started")

	return e
}

// run consumes reporter completions until Close. Settling on a single
// goroutine keeps ledger commit/rollback off arbitrary network callback
// contexts.
func (e *ActiveEngine) run() {
	defer e.wg.Done()
	for {
		select {
		case c := <-e.completions:
			e.settle(c)
		case <-e.done:
			return
		}
	}
}

func (e *ActiveEngine) settle(c completion) {
	switch c.kind {
	case reportImpression:
		e.ledger.SettleImpression(c.dedupID, c.err == nil)
	case reportClick:
		e.ledger.SettleClick(c.dedupID, c.err == nil)
	}
}

// post hands a completion to the run loop. Completions arriving after Close
// are dropped; the session is over and the optimistic entry dies with it.
func (e *ActiveEngine) post(c completion) {
	select {
	case e.completions <- c:
	case <-e.done:
	}
}

// SetTriggers merges the values into the trigger store. The store's change
// notification re-runs the candidate scan synchronously on this goroutine.
func (e *ActiveEngine) SetTriggers(values map[string]any) {
	if e.closed.Load() {
		return
	}
	e.triggers.Set(values)
}

// RemoveTriggers deletes the keys from the trigger store, re-scanning if any
// key existed.
func (e *ActiveEngine) RemoveTriggers(keys []string) {
	if e.closed.Load() {
		return
	}
	e.triggers.Remove(keys)
}

// GetTriggers returns a copy of the current trigger mapping.
func (e *ActiveEngine) GetTriggers() map[string]trigger.Value {
	return e.triggers.All()
}

// GetTriggerValue returns one trigger value and whether it is present.
func (e *ActiveEngine) GetTriggerValue(key string) (trigger.Value, bool) {
	return e.triggers.Get(key)
}

// SetMessagingPaused updates the persisted paused flag. Unpausing re-scans
// immediately; pausing affects future queueing decisions only and never
// dismisses an in-flight presentation.
func (e *ActiveEngine) SetMessagingPaused(paused bool) {
	if e.closed.Load() {
		return
	}

	if err := e.store.SaveBool(storage.KeyPaused, paused); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SetMessagingPaused",
			"error":    err,
		}).Warn("Failed to persist paused flag")
	}

	e.mu.Lock()
	changed := e.paused != paused
	e.paused = paused
	e.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SetMessagingPaused",
		"paused":   paused,
	}).Info("Messaging paused flag updated")

	if changed && !paused {
		e.scan()
	}
}

// IsMessagingPaused reports the paused flag.
func (e *ActiveEngine) IsMessagingPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// UpdateMessageSet replaces the candidate set with the new snapshot and
// re-scans. Malformed messages are dropped here so the scan never sees them.
func (e *ActiveEngine) UpdateMessageSet(messages []*message.Message) {
	if e.closed.Load() {
		return
	}

	candidates := make([]*message.Message, 0, len(messages))
	for _, m := range messages {
		if m == nil {
			continue
		}
		if err := m.Validate(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "UpdateMessageSet",
				"message_id": m.ID,
				"error":      err,
			}).Warn("Dropping malformed message from candidate set")
			continue
		}
		candidates = append(candidates, m)
	}

	e.mu.Lock()
	e.candidates = candidates
	e.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":   "UpdateMessageSet",
		"candidates": len(candidates),
	}).Debug("Candidate message set replaced")

	e.scan()
}

func (e *ActiveEngine) onTriggersChanged() {
	e.scan()
}

// scan re-evaluates every candidate against a trigger snapshot taken once at
// entry, queueing those that qualify, then attempts presentation. Candidates
// are visited in the order of the last message-set snapshot. While paused,
// evaluation still runs but queueing is suppressed; unpausing re-scans and
// re-attempts.
func (e *ActiveEngine) scan() {
	if e.closed.Load() {
		return
	}

	snap := e.triggers.Snapshot()

	e.mu.Lock()
	for _, m := range e.candidates {
		if m.Preview {
			continue
		}
		if e.queue.Contains(m.ID) || e.ledger.HasSeen(m.ID) {
			continue
		}
		if !snap.Evaluate(m.Triggers) {
			continue
		}
		if e.paused {
			continue
		}
		e.queue.Append(m)
		logrus.WithFields(logrus.Fields{
			"function":   "scan",
			"message_id": m.ID,
		}).Debug("Message queued for display")
	}
	e.presentHeadLocked()
	e.mu.Unlock()
}

// presentHeadLocked transitions the queue head to presenting if nothing is
// presenting yet. Heads with no resolvable content variant are dropped and
// the next entry is tried. Callers hold e.mu.
func (e *ActiveEngine) presentHeadLocked() {
	for {
		head := e.queue.Head()
		if head == nil || e.queue.Presenting() {
			return
		}
		if e.paused && !head.Preview {
			return
		}

		variantID, ok := head.VariantID(e.channel, e.locale)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"function":   "presentHeadLocked",
				"message_id": head.ID,
			}).Warn("No content variant resolves, dropping message")
			e.queue.PopHead()
			continue
		}
		if !e.queue.MarkPresenting() {
			return
		}

		handle := Handle(uuid.NewString())
		e.current = head
		e.currentHandle = handle
		e.currentVariant = variantID

		msg := head
		e.dispatch.Do(func() {
			e.gateway.Present(handle, msg, variantID)
		})

		logrus.WithFields(logrus.Fields{
			"function":   "presentHeadLocked",
			"message_id": msg.ID,
			"variant_id": variantID,
			"preview":    msg.Preview,
		}).Info("Presenting message")

		if !msg.Preview && e.ledger.BeginImpression(msg.ID) {
			go e.reportImpressionAsync(msg.ID, variantID)
		}
		return
	}
}

// PresentPreview shows a preview message out of normal priority order. If a
// message is presenting, the preview slots in behind it and the current
// presentation is asked to dismiss; the dismissal callback then advances to
// the preview. Previews bypass the seen ledger and analytics entirely, and
// are shown even while messaging is paused.
func (e *ActiveEngine) PresentPreview(msg *message.Message) {
	if e.closed.Load() || msg == nil {
		return
	}
	if !msg.Preview {
		logrus.WithFields(logrus.Fields{
			"function":   "PresentPreview",
			"message_id": msg.ID,
		}).Warn("Refusing to preview a non-preview message")
		return
	}
	if err := msg.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "PresentPreview",
			"message_id": msg.ID,
			"error":      err,
		}).Warn("Refusing to preview malformed message")
		return
	}

	e.mu.Lock()
	if e.queue.Presenting() {
		e.queue.InsertAt(1, msg)
		handle := e.currentHandle
		e.mu.Unlock()

		logrus.WithFields(logrus.Fields{
			"function":   "PresentPreview",
			"message_id": msg.ID,
		}).Info("Preview queued behind current presentation")

		e.dispatch.Do(func() {
			e.gateway.Dismiss(handle)
		})
		return
	}

	e.queue.InsertAt(0, msg)
	e.presentHeadLocked()
	e.mu.Unlock()
}

// OnDismissed completes the presentation identified by handle: the message
// is marked seen (previews excepted), its first-click window resets, and the
// next queued message presents. A stale or unknown handle is ignored, so
// duplicate dismissal callbacks are no-ops.
func (e *ActiveEngine) OnDismissed(handle Handle) {
	if e.closed.Load() {
		return
	}

	e.mu.Lock()
	if e.current == nil || handle != e.currentHandle {
		e.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"function": "OnDismissed",
			"handle":   handle,
		}).Debug("Ignoring dismissal for stale handle")
		return
	}

	dismissed := e.current
	e.current = nil
	e.currentHandle = ""
	e.currentVariant = ""
	e.queue.PopHead()

	if !dismissed.Preview {
		e.ledger.MarkSeen(dismissed.ID)
	}
	dismissed.ClearActionTaken()

	e.presentHeadLocked()
	presenting := e.queue.Presenting()
	empty := e.queue.Len() == 0
	e.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":   "OnDismissed",
		"message_id": dismissed.ID,
		"preview":    dismissed.Preview,
	}).Info("Message dismissed")

	if presenting {
		return
	}

	e.dispatch.Do(func() {
		e.gateway.TearDown()
	})
	if empty {
		// Newly satisfied triggers or newly arrived messages may qualify
		// now that the surface is free.
		e.scan()
	}
}

// OnActionSelected records a user action on the current presentation. The
// first action per attribution window reports FirstClick=true; duplicate
// click ids produce no further network calls.
func (e *ActiveEngine) OnActionSelected(handle Handle, action ClickAction) {
	if e.closed.Load() {
		return
	}

	e.mu.Lock()
	if e.current == nil || handle != e.currentHandle {
		e.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"function": "OnActionSelected",
			"handle":   handle,
		}).Debug("Ignoring action for stale handle")
		return
	}
	msg := e.current
	variantID := e.currentVariant
	e.mu.Unlock()

	action.FirstClick = msg.TakeFirstClick()

	if msg.Preview {
		return
	}

	clickID := action.ClickID
	if clickID == "" {
		clickID = msg.ID + ":" + action.ElementID
	}
	if !e.ledger.BeginClick(clickID) {
		logrus.WithFields(logrus.Fields{
			"function": "OnActionSelected",
			"click_id": clickID,
		}).Debug("Click already reported, skipping")
		return
	}

	logrus.WithFields(logrus.Fields{
		"function":    "OnActionSelected",
		"message_id":  msg.ID,
		"click_id":    clickID,
		"first_click": action.FirstClick,
	}).Info("Reporting click")

	go e.reportClickAsync(msg.ID, variantID, clickID, action)
}

func (e *ActiveEngine) reportImpressionAsync(messageID, variantID string) {
	err := e.reporter.ReportImpression(context.Background(), e.appID, e.userID, messageID, variantID)
	e.post(completion{kind: reportImpression, dedupID: messageID, err: err})
}

func (e *ActiveEngine) reportClickAsync(messageID, variantID, clickID string, action ClickAction) {
	err := e.reporter.ReportClick(context.Background(), e.appID, e.userID, messageID, variantID, action)
	e.post(completion{kind: reportClick, dedupID: clickID, err: err})
}

// Close stops the run loop and the interaction dispatcher. Safe to call more
// than once; operations after Close are no-ops.
func (e *ActiveEngine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(e.done)
	e.wg.Wait()
	e.dispatch.Close()

	logrus.WithFields(logrus.Fields{
		"function": "Close",
	}).Info("In-app messaging engine stopped")
	return nil
}
