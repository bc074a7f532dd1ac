package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ecomlabs/orderlake/pkg/analytics"
	"github.com/ecomlabs/orderlake/pkg/dataset"
	"github.com/ecomlabs/orderlake/pkg/geo"
)

// PublisherConfig configures the periodic publisher loop.
type PublisherConfig struct {
	Logger    *slog.Logger
	Clock     clockwork.Clock
	Warehouse *Warehouse

	// Records is the full (unfiltered) order record set; the publisher
	// summarizes over the whole dataset span on each refresh.
	Records   []dataset.OrderLine
	GeoPoints []dataset.GeoPoint

	RefreshInterval time.Duration
}

func (cfg *PublisherConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Warehouse == nil {
		return errors.New("warehouse is required")
	}
	if cfg.RefreshInterval <= 0 {
		return errors.New("refresh interval must be greater than 0")
	}

	// Optional with default
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Publisher republishes the full-span summary tables on an interval so the
// warehouse never drifts far from the loaded dataset.
type Publisher struct {
	log *slog.Logger
	cfg PublisherConfig

	resolved map[string]geo.Point

	readyOnce sync.Once
	readyCh   chan struct{}
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate publisher config: %w", err)
	}
	return &Publisher{
		log:      cfg.Logger,
		cfg:      cfg,
		resolved: geo.Resolve(cfg.GeoPoints),
		readyCh:  make(chan struct{}),
	}, nil
}

// Ready reports whether at least one publish has completed.
func (p *Publisher) Ready() bool {
	select {
	case <-p.readyCh:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the first publish completes or ctx is done.
func (p *Publisher) WaitReady(ctx context.Context) error {
	select {
	case <-p.readyCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for publisher: %w", ctx.Err())
	}
}

// Start runs the publish loop in the background until ctx is done.
func (p *Publisher) Start(ctx context.Context) {
	go func() {
		p.log.Info("warehouse: starting publish loop", "interval", p.cfg.RefreshInterval)

		if err := p.Refresh(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			p.log.Error("warehouse: initial publish failed", "error", err)
		}
		ticker := p.cfg.Clock.NewTicker(p.cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if err := p.Refresh(ctx); err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					p.log.Error("warehouse: publish failed", "error", err)
				}
			}
		}
	}()
}

// Refresh recomputes the full-span summary and publishes it.
func (p *Publisher) Refresh(ctx context.Context) error {
	refreshStart := time.Now()
	defer func() {
		p.log.Debug("warehouse: publish refresh completed", "duration", time.Since(refreshStart).String())
	}()

	span, _ := analytics.Span(p.cfg.Records)
	sum := analytics.Summarize(p.cfg.Records, span)

	if err := p.cfg.Warehouse.Publish(ctx, sum, p.resolved); err != nil {
		return fmt.Errorf("failed to publish summary: %w", err)
	}

	p.readyOnce.Do(func() {
		close(p.readyCh)
	})
	return nil
}
