package trigger

import "strings"

// Snapshot is an immutable copy of the store taken at the start of an
// evaluation pass.
type Snapshot map[string]Value

// Evaluate reports whether the expression is satisfied by the snapshot. The
// expression matches when all clauses of at least one group match. An empty
// expression always matches.
//
// Evaluation never errors: a clause over a missing key matches only under
// OpNotExists, and a type mismatch (ordering over a non-numeric value,
// containment over a non-string) degrades that clause to unsatisfied without
// affecting the rest of the expression.
func (s Snapshot) Evaluate(expr Expression) bool {
	if len(expr) == 0 {
		return true
	}
	for _, group := range expr {
		if s.evaluateGroup(group) {
			return true
		}
	}
	return false
}

// evaluateGroup evaluates a conjunction, short-circuiting on the first
// unsatisfied clause.
func (s Snapshot) evaluateGroup(group []Clause) bool {
	for _, clause := range group {
		if !s.evaluateClause(clause) {
			return false
		}
	}
	return len(group) > 0
}

func (s Snapshot) evaluateClause(c Clause) bool {
	stored, present := s[c.Key]

	switch c.Op {
	case OpExists:
		return present
	case OpNotExists:
		return !present
	}
	if !present {
		return false
	}

	switch c.Op {
	case OpEqual:
		return stored.Equal(c.Value)
	case OpNotEqual:
		return !stored.Equal(c.Value)
	case OpGreaterThan:
		cmp, ok := stored.compare(c.Value)
		return ok && cmp > 0
	case OpGreaterOrEqual:
		cmp, ok := stored.compare(c.Value)
		return ok && cmp >= 0
	case OpLessThan:
		cmp, ok := stored.compare(c.Value)
		return ok && cmp < 0
	case OpLessOrEqual:
		cmp, ok := stored.compare(c.Value)
		return ok && cmp <= 0
	case OpContains:
		haystack, ok := stored.AsString()
		if !ok {
			return false
		}
		needle, ok := c.Value.AsString()
		return ok && strings.Contains(haystack, needle)
	default:
		// Unknown operator degrades the clause, not the expression.
		return false
	}
}
