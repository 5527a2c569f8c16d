package events

import "github.com/basshamut/gruastremart-core-api/internal/entities"

const (
	DemandCreatedEventName      = "demand.created"
	DemandAssignedEventName     = "demand.assigned"
	DemandStateChangedEventName = "demand.state_changed"
)

// DemandCreatedEvent is published after a demand is durably persisted.
type DemandCreatedEvent struct {
	Demand  entities.CraneDemand
	Creator entities.User
}

func (DemandCreatedEvent) Name() string { return DemandCreatedEventName }

// DemandAssignedEvent is published after the TAKEN transition commits.
type DemandAssignedEvent struct {
	Demand   entities.CraneDemand
	Creator  entities.User
	Operator entities.User
}

func (DemandAssignedEvent) Name() string { return DemandAssignedEventName }

// DemandStateChangedEvent covers cancellation, completion and the
// administrative deactivate.
type DemandStateChangedEvent struct {
	Demand        entities.CraneDemand
	PreviousState string
}

func (DemandStateChangedEvent) Name() string { return DemandStateChangedEventName }
