package trigger

import (
	"encoding/json"
	"fmt"
)

// Operator names a comparison applied by a trigger clause.
type Operator string

const (
	// OpEqual matches when the stored value equals the clause value.
	OpEqual Operator = "equal"
	// OpNotEqual matches when the stored value differs from the clause value.
	OpNotEqual Operator = "not_equal"
	// OpGreaterThan matches when the stored value is numerically greater.
	OpGreaterThan Operator = "greater_than"
	// OpGreaterOrEqual matches when the stored value is numerically greater or equal.
	OpGreaterOrEqual Operator = "greater_than_or_equal"
	// OpLessThan matches when the stored value is numerically less.
	OpLessThan Operator = "less_than"
	// OpLessOrEqual matches when the stored value is numerically less or equal.
	OpLessOrEqual Operator = "less_than_or_equal"
	// OpExists matches when the key is present, regardless of its value.
	OpExists Operator = "exists"
	// OpNotExists matches when the key is absent.
	OpNotExists Operator = "not_exists"
	// OpContains matches when the stored string contains the clause string.
	OpContains Operator = "contains"
)

// Clause is a single condition over one trigger key. Existence operators
// ignore the clause value.
type Clause struct {
	Key   string   `json:"key"`
	Op    Operator `json:"operator"`
	Value Value    `json:"value,omitempty"`
}

// Expression is a disjunction of conjunctions: the expression is satisfied
// when every clause of at least one group is satisfied. An empty expression
// is always satisfied.
type Expression [][]Clause

// clauseDef mirrors the wire shape of a clause; the value field is optional
// for existence operators.
type clauseDef struct {
	Key   string          `json:"key"`
	Op    Operator        `json:"operator"`
	Value json.RawMessage `json:"value"`
}

// UnmarshalJSON decodes a clause, tolerating a missing value field for the
// existence operators.
func (c *Clause) UnmarshalJSON(data []byte) error {
	var def clauseDef
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	if def.Key == "" {
		return fmt.Errorf("trigger clause missing key")
	}
	if def.Op == "" {
		return fmt.Errorf("trigger clause %q missing operator", def.Key)
	}
	c.Key = def.Key
	c.Op = def.Op
	c.Value = Value{}
	if len(def.Value) > 0 && string(def.Value) != "null" {
		if err := json.Unmarshal(def.Value, &c.Value); err != nil {
			return fmt.Errorf("trigger clause %q: %w", def.Key, err)
		}
	}
	return nil
}
