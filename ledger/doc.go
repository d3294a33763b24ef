// Package ledger implements the dedup ledger: three persisted sets of opaque
// identifiers (seen messages, reported impressions, reported clicks) that
// make "has this happened before" idempotent across process restarts.
//
// Impression and click reporting follow an optimistic-update protocol: Begin
// atomically checks membership and adds the identifier before the network
// call, so two concurrent reports for the same identifier cannot both
// proceed. Settle either commits (persists) or rolls the entry back, and is
// idempotent for identifiers that are already settled.
package ledger
