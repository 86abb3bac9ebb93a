package constants

// Common string constants used throughout the codebase
const (
	// Environments
	ProdEnvironment = "prod"
	TestEnvironment = "test"

	// Native asset identifier for the single-asset deposit ledger
	NativeToken = "native"

	// Bridge action tags carried in the cross-domain message payload
	ActionTagBridge = "bridge"

	// Execution attempt status values
	StatusInitiated = "initiated"
	StatusFailed    = "failed"

	// Limit order validity bounds, in days
	MinOrderValidityDays = 1
	MaxOrderValidityDays = 365
)

// Observable event types emitted by the services layer
const (
	EventThresholdSet      = "threshold.set"
	EventDeposited         = "deposit.credited"
	EventWithdrawn         = "deposit.withdrawn"
	EventSessionAuthorized = "session.authorized"
	EventSessionRevoked    = "session.revoked"
	EventBridgeInitiated   = "bridge.initiated"
	EventBridgeFailed      = "bridge.failed"
	EventOrderCreated      = "order.created"
	EventOrderExecuted     = "order.executed"
	EventOrderCancelled    = "order.cancelled"
)
