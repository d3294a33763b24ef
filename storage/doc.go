// Package storage defines the durable string-keyed store the engine mirrors
// its dedup history into, plus two implementations: a SQLite-backed store for
// production hosts and an in-memory store for tests and capability-limited
// environments.
//
// Persistence is best-effort mirroring: the engine's in-memory state stays
// authoritative for the session when a save fails, and stores are reloaded at
// startup to make dedup idempotent across process restarts.
package storage
