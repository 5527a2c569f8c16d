package constants

//============== OPERATOR STATUSES ==============

// Operator location statuses kept in the cache. The field is free-form on
// the wire, these are the values the backend itself writes.
const (
	OperatorStatusOnline   = "ONLINE"
	OperatorStatusOffline  = "OFFLINE"
	OperatorStatusBusy     = "BUSY"
	OperatorStatusAssigned = "ASSIGNED"
)

//============== PAYMENT STATUSES ==============

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusVerified = "VERIFIED"
	PaymentStatusRejected = "REJECTED"
)

//============== CACHE KEYS ==============

const (
	// Redis key for a cached operator location.
	// Format: operator_location:<operatorId> -> JSON entry
	CacheKeyOperatorLocation = "operator_location:%s"
)

//============== LIVE TRACKING ==============

const (
	// Websocket topic carrying operator position updates for one demand.
	// Format: demand:<demandId>
	TrackingTopicDemand = "demand:%s"
)
