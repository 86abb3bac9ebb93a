package store

import (
	"encoding/json"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Storage sentinel errors. Implementations map their backend-specific
// failures onto these so the services layer stays backend-agnostic.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Threshold is a user's configured trigger boundary value.
type Threshold struct {
	UserAddress string
	Value       float64
	UpdatedAt   time.Time
}

// Deposit is a per-(user, token) ledger balance, in wei.
type Deposit struct {
	UserAddress string
	Token       string
	Amount      *big.Int
	UpdatedAt   time.Time
}

// SessionGrant records whether a session key may act for a user.
type SessionGrant struct {
	UserAddress  string
	SessionKey   string
	Authorized   bool
	AuthorizedAt time.Time
}

// LimitOrder is a standing instruction to swap TokenIn for TokenOut once
// the price condition is met. Orders are only ever deactivated, never
// deleted, so history stays queryable by (user, order id).
type LimitOrder struct {
	UserAddress string
	OrderID     int64
	TokenIn     string
	TokenOut    string
	AmountIn    *big.Int
	LimitPrice  float64
	IsBuy       bool
	IsActive    bool
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// BridgeAttempt is the audit record of one bridge execution attempt.
type BridgeAttempt struct {
	ID            uuid.UUID
	UserAddress   string
	CallerAddress string
	Destination   uint32
	Amount        *big.Int
	Fee           *big.Int
	Status        string
	FailureReason string
	Receipt       string
	CreatedAt     time.Time
}

// Event is an observable audit event emitted by the services layer.
type Event struct {
	ID          uuid.UUID
	EventType   string
	UserAddress string
	Payload     json.RawMessage
	CreatedAt   time.Time
}

type UpsertThresholdParams struct {
	UserAddress string
	Value       float64
}

type GetDepositParams struct {
	UserAddress string
	Token       string
}

type CreditDepositParams struct {
	UserAddress string
	Token       string
	Amount      *big.Int
}

type DebitDepositParams struct {
	UserAddress string
	Token       string
	Amount      *big.Int
}

type GetSessionGrantParams struct {
	UserAddress string
	SessionKey  string
}

type UpsertSessionGrantParams struct {
	UserAddress  string
	SessionKey   string
	Authorized   bool
	AuthorizedAt time.Time
}

type CreateLimitOrderParams struct {
	UserAddress string
	TokenIn     string
	TokenOut    string
	AmountIn    *big.Int
	LimitPrice  float64
	IsBuy       bool
	ExpiresAt   time.Time
}

type GetLimitOrderParams struct {
	UserAddress string
	OrderID     int64
}

type DeactivateLimitOrderParams struct {
	UserAddress string
	OrderID     int64
}

type CreateBridgeAttemptParams struct {
	UserAddress   string
	CallerAddress string
	Destination   uint32
	Amount        *big.Int
	Fee           *big.Int
	Status        string
	FailureReason string
	Receipt       string
}

type CreateEventParams struct {
	EventType   string
	UserAddress string
	Payload     json.RawMessage
}
