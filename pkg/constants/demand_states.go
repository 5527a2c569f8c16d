package constants

// Crane demand states (match the values stored in the DB).
const (
	DemandStateActive    = "ACTIVE"
	DemandStateTaken     = "TAKEN"
	DemandStateCompleted = "COMPLETED"
	DemandStateCancelled = "CANCELLED"
	DemandStateInactive  = "INACTIVE"
)

// Terminal states: nothing transitions out of these.
var TerminalDemandStates = []string{
	DemandStateCompleted,
	DemandStateCancelled,
	DemandStateInactive,
}

var demandStates = []string{
	DemandStateActive,
	DemandStateTaken,
	DemandStateCompleted,
	DemandStateCancelled,
	DemandStateInactive,
}

// allowed lifecycle transitions, keyed by current state
var demandTransitions = map[string][]string{
	DemandStateActive: {DemandStateTaken, DemandStateCancelled},
	DemandStateTaken:  {DemandStateCompleted, DemandStateCancelled},
}

func IsValidDemandState(code string) bool {
	for _, s := range demandStates {
		if s == code {
			return true
		}
	}
	return false
}

func IsTerminalDemandState(code string) bool {
	for _, s := range TerminalDemandStates {
		if s == code {
			return true
		}
	}
	return false
}

// CanTransitionDemand reports whether a lifecycle transition from -> to is
// allowed. The administrative soft delete to INACTIVE is not a lifecycle
// transition and is handled separately.
func CanTransitionDemand(from, to string) bool {
	for _, s := range demandTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
