// Package session implements the concurrent session registry, the turn
// ledger, and the escalation state machine for customer-support
// conversations. All session state lives in memory for the lifetime of
// the process.
package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ValueKind identifies the primitive type held by a Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
)

// Value is a closed primitive variant used for customer info and turn
// metadata. Keeping the set closed keeps serialization well-defined.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// StringValue creates a string Value.
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// NumberValue creates a numeric Value.
func NumberValue(f float64) Value { return Value{kind: ValueNumber, num: f} }

// BoolValue creates a boolean Value.
func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

// Kind returns the primitive kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string form of the value.
func (v Value) AsString() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// AsNumber returns the numeric form of the value, or 0 for non-numbers.
func (v Value) AsNumber() float64 {
	if v.kind == ValueNumber {
		return v.num
	}
	return 0
}

// AsBool returns the boolean form of the value, or false for non-booleans.
func (v Value) AsBool() bool {
	if v.kind == ValueBool {
		return v.b
	}
	return false
}

// MarshalJSON renders the value as its primitive JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.b)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// UnmarshalJSON accepts a JSON string, number, or boolean.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringValue(t)
	case float64:
		*v = NumberValue(t)
	case bool:
		*v = BoolValue(t)
	default:
		return fmt.Errorf("unsupported value type %T", raw)
	}
	return nil
}

// Turn is one user-message/agent-response exchange within a session.
// Turns are append-only; once recorded they are never mutated.
type Turn struct {
	ID            string
	Timestamp     time.Time
	UserMessage   string
	AgentResponse string
	Category      string
	Confidence    *float32
	RequiresHuman bool
	Metadata      map[string]Value
}

// Session is the full state of one customer interaction. Instances are
// owned by the Registry and never escape it; callers observe sessions
// through snapshots only.
type Session struct {
	ID            string
	CreatedAt     time.Time
	LastActivity  time.Time
	Turns         []Turn
	CustomerInfo  map[string]Value
	IsActive      bool
	RequiresHuman bool
	// EscalationReason is non-empty whenever RequiresHuman is true.
	EscalationReason string
	HumanAgentID     string
}

// Snapshot is a read-only copy of session state at a point in time.
type Snapshot struct {
	ID               string
	CreatedAt        time.Time
	LastActivity     time.Time
	TurnCount        int
	CustomerInfo     map[string]Value
	IsActive         bool
	RequiresHuman    bool
	EscalationReason string
	HumanAgentID     string
	LastCategory     string
}

// Status is the caller-facing summary of a session.
type Status struct {
	SessionID        string
	IsActive         bool
	TurnCount        int
	RequiresHuman    bool
	EscalationReason string
	DurationMinutes  float64
	LastActivity     time.Time
	LastCategory     string
}

// TurnInput carries the data needed to append a turn.
type TurnInput struct {
	UserMessage   string
	AgentResponse string
	Category      string
	Confidence    *float32
	Metadata      map[string]Value
}

// TurnResult reports the session state right after an append.
type TurnResult struct {
	TurnID           string
	RequiresHuman    bool
	EscalationReason string
	TurnCount        int
}
