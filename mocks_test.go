package inappmsg

import (
	"context"
	"sync"

	"github.com/opd-ai/inappmsg/message"
)

// presentEvent records one Present call on the mock gateway.
type presentEvent struct {
	handle    Handle
	msg       *message.Message
	variantID string
}

// mockGateway records presentation traffic. Dismissal and action callbacks
// are driven by the test, playing the host UI.
type mockGateway struct {
	mu        sync.Mutex
	presents  []presentEvent
	dismisses []Handle
	tearDowns int
}

func newMockGateway() *mockGateway {
	return &mockGateway{}
}

func (g *mockGateway) Present(handle Handle, msg *message.Message, variantID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presents = append(g.presents, presentEvent{handle: handle, msg: msg, variantID: variantID})
}

func (g *mockGateway) Dismiss(handle Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dismisses = append(g.dismisses, handle)
}

func (g *mockGateway) TearDown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tearDowns++
}

func (g *mockGateway) presentCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.presents)
}

func (g *mockGateway) presentAt(i int) presentEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.presents[i]
}

func (g *mockGateway) lastPresent() presentEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.presents[len(g.presents)-1]
}

func (g *mockGateway) dismissCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.dismisses)
}

func (g *mockGateway) lastDismiss() Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dismisses[len(g.dismisses)-1]
}

func (g *mockGateway) tearDownCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tearDowns
}

// impressionCall records one ReportImpression call.
type impressionCall struct {
	messageID string
	variantID string
}

// clickCall records one ReportClick call.
type clickCall struct {
	messageID string
	action    ClickAction
}

// mockReporter records analytics traffic. Setting impressionErr or clickErr
// makes the corresponding calls fail; setting gate holds calls in flight
// until the channel is closed.
type mockReporter struct {
	mu            sync.Mutex
	impressions   []impressionCall
	clicks        []clickCall
	impressionErr error
	clickErr      error
	gate          chan struct{}
}

func newMockReporter() *mockReporter {
	return &mockReporter{}
}

func (r *mockReporter) ReportImpression(_ context.Context, _, _, messageID, variantID string) error {
	r.mu.Lock()
	r.impressions = append(r.impressions, impressionCall{messageID: messageID, variantID: variantID})
	err := r.impressionErr
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (r *mockReporter) ReportClick(_ context.Context, _, _, messageID, _ string, action ClickAction) error {
	r.mu.Lock()
	r.clicks = append(r.clicks, clickCall{messageID: messageID, action: action})
	err := r.clickErr
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (r *mockReporter) impressionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.impressions)
}

func (r *mockReporter) impressionAt(i int) impressionCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.impressions[i]
}

func (r *mockReporter) clickCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clicks)
}

func (r *mockReporter) clickAt(i int) clickCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clicks[i]
}

func (r *mockReporter) setImpressionErr(err error) {
	r.mu.Lock()
	r.impressionErr = err
	r.mu.Unlock()
}
