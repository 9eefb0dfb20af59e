package compiler

// Needs tells an expression whether its value is consumed.
type Needs uint8

const (
	// leave exactly one value on the stack
	NeedsValue Needs = iota + 1
	// leave nothing
	NeedsNone
)

func (n Needs) Value() bool {
	return n == NeedsValue
}

func (n Needs) String() string {
	if n == NeedsValue {
		return "value"
	}
	return "none"
}
