// Package message defines the in-app message model and the parsing of
// backend-provided message definition sets.
//
// A message pairs content variants (keyed by channel and locale) with a
// trigger expression gating its display. Messages are immutable after
// construction except for the first-click attribution flag, which is
// check-and-set exactly once per presentation window.
package message
