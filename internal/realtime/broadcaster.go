package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/logger"
)

// broadcastInterval paces the price feed pushed to subscribers.
const broadcastInterval = 2 * time.Second

// PriceUpdate is one symbol's entry in a broadcast frame.
type PriceUpdate struct {
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Source    string  `json:"source"`
}

// Frame is the wire shape of one broadcast tick.
type Frame struct {
	Type      string                 `json:"type"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]PriceUpdate `json:"data"`
}

type manyResolver interface {
	ResolveMany(ctx context.Context, symbols []string) map[string]market.Quote
}

// Broadcaster periodically resolves the broadcast symbol set and
// pushes a frame to the hub.
type Broadcaster struct {
	hub      *Hub
	resolver manyResolver
	logger   *logger.Logger

	symbols []string
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
}

// NewBroadcaster creates a broadcaster for the fixed symbol set.
func NewBroadcaster(hub *Hub, res manyResolver, log *logger.Logger) *Broadcaster {
	return &Broadcaster{
		hub:      hub,
		resolver: res,
		logger:   log.WithField("component", "broadcaster"),
		symbols:  market.BroadcastSymbols,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		now:      time.Now,
	}
}

// Start launches the broadcast loop.
func (b *Broadcaster) Start(ctx context.Context) {
	b.logger.WithField("interval", broadcastInterval.String()).Info("starting price broadcaster")

	go func() {
		defer close(b.doneCh)

		ticker := time.NewTicker(broadcastInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				b.tick(ctx)
			case <-b.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the broadcast loop and waits for it to exit.
func (b *Broadcaster) Stop() {
	b.logger.Info("stopping price broadcaster")
	close(b.stopCh)
	<-b.doneCh
}

// tick resolves the symbol set and broadcasts one frame. A tick that
// yields no usable quotes is skipped, never fatal.
func (b *Broadcaster) tick(ctx context.Context) {
	frame, ok := b.buildFrame(ctx)
	if !ok {
		b.logger.Debug("no usable quotes this tick, skipping broadcast")
		return
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		b.logger.WithError(err).Error("marshaling broadcast frame")
		return
	}
	b.hub.Broadcast(payload)
}

func (b *Broadcaster) buildFrame(ctx context.Context) (Frame, bool) {
	quotes := b.resolver.ResolveMany(ctx, b.symbols)

	data := make(map[string]PriceUpdate, len(quotes))
	for symbol, q := range quotes {
		if !q.Usable() {
			continue
		}
		data[symbol] = PriceUpdate{
			Price:     q.Price,
			Change:    q.Change,
			ChangePct: q.ChangePct,
			Source:    q.Source,
		}
	}
	if len(data) == 0 {
		return Frame{}, false
	}

	return Frame{
		Type:      "price_update",
		Timestamp: b.now().Format(time.RFC3339),
		Data:      data,
	}, true
}
