package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	feedHandshakeTimeout = 4 * time.Second
	feedReconnectDelay   = 3 * time.Second
)

// ErrNoTick is returned by Read before the feed has received its first
// price tick.
var ErrNoTick = errors.New("no price tick received yet")

// PriceFeed is a streaming price oracle that subscribes to a websocket
// market-data feed and caches the most recent tick. Read returns the
// cached tick with its original observation time, so consumers can
// bound its age and reject stale ticks when the feed stalls.
type PriceFeed struct {
	wsURL  string
	symbol string

	mu     sync.RWMutex
	latest Reading
	seen   bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

var _ Oracle = (*PriceFeed)(nil)

type feedTick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// NewPriceFeed creates a feed for one symbol. Call Start to begin
// consuming ticks.
func NewPriceFeed(wsURL, symbol string) *PriceFeed {
	ctx, cancel := context.WithCancel(context.Background())
	return &PriceFeed{
		wsURL:  wsURL,
		symbol: symbol,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start launches the consume loop. It reconnects with a fixed delay
// until Stop is called.
func (f *PriceFeed) Start() {
	go func() {
		defer close(f.done)
		for {
			if f.ctx.Err() != nil {
				return
			}
			if err := f.consume(); err != nil && f.ctx.Err() == nil {
				logger.Warn("Price feed disconnected, reconnecting",
					zap.String("symbol", f.symbol),
					zap.Error(err))
			}
			select {
			case <-f.ctx.Done():
				return
			case <-time.After(feedReconnectDelay):
			}
		}
	}()
}

// Stop terminates the consume loop and waits for it to exit.
func (f *PriceFeed) Stop() {
	f.cancel()
	<-f.done
}

// Read returns the most recent cached tick.
func (f *PriceFeed) Read(ctx context.Context) (Reading, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.seen {
		return Reading{}, ErrNoTick
	}
	return f.latest, nil
}

func (f *PriceFeed) consume() error {
	dialer := websocket.Dialer{HandshakeTimeout: feedHandshakeTimeout}
	conn, _, err := dialer.DialContext(f.ctx, f.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial price feed: %w", err)
	}
	defer conn.Close()

	subscription := map[string]string{"op": "subscribe", "channel": fmt.Sprintf("%s@ticker", f.symbol)}
	if err := conn.WriteJSON(subscription); err != nil {
		return fmt.Errorf("failed to send subscription message: %w", err)
	}

	// Unblock ReadMessage when the feed is stopped.
	go func() {
		<-f.ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var tick feedTick
		if err := json.Unmarshal(message, &tick); err != nil {
			// Control frames and acks are not ticks.
			continue
		}
		if tick.Price <= 0 {
			continue
		}

		observedAt := time.Now()
		if tick.Timestamp > 0 {
			observedAt = time.UnixMilli(tick.Timestamp)
		}

		f.mu.Lock()
		f.latest = Reading{Value: tick.Price, ObservedAt: observedAt}
		f.seen = true
		f.mu.Unlock()
	}
}
