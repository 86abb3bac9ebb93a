package services

import "errors"

// Every failure mode is a distinct named signal so an automated session
// runner can tell "wait and retry" (precondition) from "stop,
// misconfigured" (validation/authorization) from "alert operator"
// (external dependency). None of these are ever swallowed.
var (
	// Validation errors: caller/input fault, rejected before any state change.
	ErrInvalidThreshold  = errors.New("threshold must be greater than zero")
	ErrZeroAmount        = errors.New("amount must be greater than zero")
	ErrInvalidSession    = errors.New("session key must not be empty")
	ErrSelfAuthorization = errors.New("session key must differ from the user address")
	ErrInvalidExpiration = errors.New("order validity must be between 1 and 365 days")
	ErrInvalidPrice      = errors.New("limit price must be greater than zero")
	ErrInvalidTokenPair  = errors.New("token pair must name two distinct tokens")
	ErrInvalidAddress    = errors.New("invalid address")

	// Authorization errors: a permissions problem, never retried automatically.
	ErrCallerNotAuthorized = errors.New("caller is not authorized to act for this user")
	ErrNotAuthorized       = errors.New("session is not authorized")

	// Precondition errors: expected, frequent, and side-effect-free.
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientDeposit    = errors.New("deposit below the per-execution transfer amount")
	ErrTriggerConditionNotMet = errors.New("trigger condition not met")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderNotActive         = errors.New("order is not active")
	ErrOrderExpired           = errors.New("order has expired")
	ErrPriceConditionNotMet   = errors.New("price condition not met")

	// External-dependency errors: surfaced as-is with no internal retry;
	// retry policy belongs to the caller.
	ErrInsufficientFee   = errors.New("paid fee below the transport quote")
	ErrStaleReading      = errors.New("oracle reading is stale")
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrTransportFailure  = errors.New("bridge transport failure")
	ErrSwapFailure       = errors.New("swap execution failure")
	ErrPayoutFailure     = errors.New("payout failure")
)

// ErrorKind classifies service errors for callers that only need the
// retry semantics, not the specific failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthorization
	KindPrecondition
	KindExternal
)

var errorKinds = map[error]ErrorKind{
	ErrInvalidThreshold:  KindValidation,
	ErrZeroAmount:        KindValidation,
	ErrInvalidSession:    KindValidation,
	ErrSelfAuthorization: KindValidation,
	ErrInvalidExpiration: KindValidation,
	ErrInvalidPrice:      KindValidation,
	ErrInvalidTokenPair:  KindValidation,
	ErrInvalidAddress:    KindValidation,

	ErrCallerNotAuthorized: KindAuthorization,
	ErrNotAuthorized:       KindAuthorization,

	ErrInsufficientBalance:    KindPrecondition,
	ErrInsufficientDeposit:    KindPrecondition,
	ErrTriggerConditionNotMet: KindPrecondition,
	ErrOrderNotFound:          KindPrecondition,
	ErrOrderNotActive:         KindPrecondition,
	ErrOrderExpired:           KindPrecondition,
	ErrPriceConditionNotMet:   KindPrecondition,

	ErrInsufficientFee:   KindExternal,
	ErrStaleReading:      KindExternal,
	ErrOracleUnavailable: KindExternal,
	ErrTransportFailure:  KindExternal,
	ErrSwapFailure:       KindExternal,
	ErrPayoutFailure:     KindExternal,
}

// Kind reports the classification of err, unwrapping as needed.
// Unrecognized errors report KindUnknown.
func Kind(err error) ErrorKind {
	for sentinel, kind := range errorKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}
