// Package inappmsg implements the in-app message evaluation and delivery
// engine of a mobile push-notification client SDK.
//
// The engine decides, whenever the host application's trigger state or
// message set changes, which message (if any) should be shown next,
// serializes presentation so at most one message is visible at a time, and
// reports view/click analytics exactly once per message or click across
// process restarts and transient network failures.
//
// Example:
//
//	store, err := storage.OpenSQLite(filepath.Join(dataDir, "inappmsg.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	options := inappmsg.NewOptions()
//	options.AppID = "app-id"
//	options.UserID = "user-id"
//	options.Store = store
//	options.Gateway = gateway   // renders messages on the UI context
//	options.Reporter = reporter // backend analytics client
//
//	engine, err := inappmsg.New(options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	engine.UpdateMessageSet(messages)
//	engine.SetTriggers(map[string]any{"session_count": 3})
//
// Hosts without in-app rendering capability receive a NoopEngine from the
// same constructor; every operation is then a safe no-op.
package inappmsg
