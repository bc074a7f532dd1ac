package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
)

// Config configures the HTTP API server. Records and GeoPoints are the
// immutable snapshot loaded once at startup; every request recomputes its
// derived tables from that snapshot.
type Config struct {
	Logger *slog.Logger

	Records   []dataset.OrderLine
	GeoPoints []dataset.GeoPoint

	// Ready gates the readiness endpoint; nil means always ready. Wire the
	// warehouse publisher's Ready here so the server only reports ready once
	// the first publish has landed.
	Ready func() bool

	ListenAddr        string
	ReadHeaderTimeout time.Duration
}

func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ListenAddr == "" {
		return errors.New("listen address is required")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	return nil
}
