package enums

import "fmt"

// MovementAction labels why stock moved.
type MovementAction string

const (
	MovementActionSold       MovementAction = "sold"
	MovementActionReceived   MovementAction = "received"
	MovementActionAdjustment MovementAction = "adjustment"
	MovementActionReturned   MovementAction = "returned"
)

var validMovementActions = []MovementAction{
	MovementActionSold,
	MovementActionReceived,
	MovementActionAdjustment,
	MovementActionReturned,
}

// String implements fmt.Stringer.
func (m MovementAction) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementAction.
func (m MovementAction) IsValid() bool {
	for _, candidate := range validMovementActions {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementAction converts raw input into a MovementAction.
func ParseMovementAction(value string) (MovementAction, error) {
	for _, candidate := range validMovementActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement action %q", value)
}
