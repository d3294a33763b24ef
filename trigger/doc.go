// Package trigger implements the trigger store and evaluator for in-app
// message display conditions.
//
// The store holds the current key/value facts supplied by the host
// application (session duration, custom flags, counters). Messages carry a
// trigger expression over those facts; the evaluator decides whether the
// expression is satisfied against an isolated snapshot of the store, so a
// concurrent mutation mid-scan can never produce a half-updated evaluation.
//
// Example:
//
//	store := trigger.NewStore()
//	store.SetListener(func() { fmt.Println("triggers changed") })
//	store.Set(map[string]any{"level": 5, "vip": true})
//
//	expr := trigger.Expression{{
//	    {Key: "level", Op: trigger.OpGreaterOrEqual, Value: trigger.Number(3)},
//	}}
//	if store.Snapshot().Evaluate(expr) {
//	    // message qualifies for display
//	}
package trigger
