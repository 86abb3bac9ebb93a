package oracle

import (
	"context"
	"sync"
	"time"
)

// Reading is a single scalar observation from an external data source.
// Gas oracles report a gas price in gwei; price oracles report a market
// price in the quote currency.
type Reading struct {
	Value      float64
	ObservedAt time.Time
}

// Oracle is the pluggable read interface consumed by the trigger engine
// and the order book. Implementations must not cache across Read calls
// unless the underlying source is itself a stream.
type Oracle interface {
	Read(ctx context.Context) (Reading, error)
}

// FixedOracle returns a configurable fixed reading. Used in tests and in
// local mode when no live feed is configured.
type FixedOracle struct {
	mu    sync.RWMutex
	value float64
}

var _ Oracle = (*FixedOracle)(nil)

// NewFixedOracle creates a fixed oracle with the given initial value.
func NewFixedOracle(value float64) *FixedOracle {
	return &FixedOracle{value: value}
}

// Set updates the fixed value.
func (o *FixedOracle) Set(value float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = value
}

// Read returns the fixed value stamped with the current time, so it is
// never considered stale.
func (o *FixedOracle) Read(ctx context.Context) (Reading, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Reading{Value: o.value, ObservedAt: time.Now()}, nil
}
