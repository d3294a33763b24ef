package inappmsg

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/inappmsg/storage"
)

var (
	// ErrNilStore indicates Options.Store was not provided.
	ErrNilStore = errors.New("inappmsg: options missing persistence store")
	// ErrNilGateway indicates Options.Gateway was not provided.
	ErrNilGateway = errors.New("inappmsg: options missing presentation gateway")
	// ErrNilReporter indicates Options.Reporter was not provided.
	ErrNilReporter = errors.New("inappmsg: options missing analytics reporter")
)

// Options configures engine construction. The engine is built explicitly by
// the application's composition root and passed by reference to callers;
// there is no ambient global instance.
type Options struct {
	// AppID and UserID identify the installation in analytics reports.
	AppID  string
	UserID string

	// Channel and Locale drive content variant selection.
	Channel string
	Locale  string

	// Store is the durable key-value store backing the dedup ledger and
	// the paused flag.
	Store storage.Store
	// Gateway renders messages.
	Gateway PresentationGateway
	// Reporter records impressions and clicks with the backend.
	Reporter AnalyticsReporter

	// RuntimeSupported probes once, at construction, whether the host can
	// render in-app messages. When it returns false New yields a
	// NoopEngine. Nil means supported.
	RuntimeSupported func() bool
}

// NewOptions creates Options with default variant selection ("all" channel,
// "en" locale) and no collaborators.
func NewOptions() *Options {
	return &Options{
		Channel: "all",
		Locale:  "en",
	}
}

// New constructs an engine. The runtime capability probe runs exactly once
// here: unsupported hosts receive a NoopEngine implementing the same
// contract, so callers never branch on capability again.
func New(options *Options) (Engine, error) {
	if options == nil {
		options = NewOptions()
	}

	if options.RuntimeSupported != nil && !options.RuntimeSupported() {
		logrus.WithFields(logrus.Fields{
			"function": "New",
		}).Info("Runtime lacks in-app rendering capability, using no-op engine")
		return NewNoopEngine(), nil
	}

	if options.Store == nil {
		return nil, ErrNilStore
	}
	if options.Gateway == nil {
		return nil, ErrNilGateway
	}
	if options.Reporter == nil {
		return nil, ErrNilReporter
	}

	return newActiveEngine(options), nil
}
