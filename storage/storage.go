package storage

// Persisted keys. These names are stable across versions; changing them
// discards the installed dedup history.
const (
	// KeySeen holds the ids of messages shown and dismissed at least once.
	KeySeen = "iam_seen_ids"
	// KeyImpressioned holds the ids of messages whose view was reported.
	KeyImpressioned = "iam_impressioned_ids"
	// KeyClicked holds the click element ids already reported.
	KeyClicked = "iam_clicked_ids"
	// KeyPaused holds the messaging-paused flag.
	KeyPaused = "iam_messaging_paused"
)

// Store is a durable, synchronous string-keyed store. Implementations must
// survive process restarts and be safe for concurrent use.
type Store interface {
	// LoadSet returns the persisted set for key. A missing key yields an
	// empty set, not an error.
	LoadSet(key string) (map[string]struct{}, error)
	// SaveSet durably replaces the set stored under key.
	SaveSet(key string, set map[string]struct{}) error
	// LoadBool returns the persisted flag for key, or def when absent.
	LoadBool(key string, def bool) (bool, error)
	// SaveBool durably replaces the flag stored under key.
	SaveBool(key string, value bool) error
}
