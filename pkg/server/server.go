// Package server exposes the derived summary tables over HTTP JSON. It is
// the boundary the presentation layer consumes; no chart or page concerns
// live on this side of it.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecomlabs/orderlake/pkg/analytics"
	"github.com/ecomlabs/orderlake/pkg/geo"
	"github.com/ecomlabs/orderlake/pkg/server/metrics"
)

type Server struct {
	log      *slog.Logger
	cfg      Config
	mux      *http.ServeMux
	httpSrv  *http.Server
	resolved map[string]geo.Point
	span     analytics.DateRange
}

func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate server config: %w", err)
	}

	s := &Server{
		log: cfg.Logger,
		cfg: cfg,
		// The geo mapping is derived from the raw geolocation table and is
		// not date-filtered, so it is resolved once up front.
		resolved: geo.Resolve(cfg.GeoPoints),
	}
	// Default summary range; zero when no record carries an approval
	// timestamp, which yields an empty (but well-formed) summary.
	s.span, _ = analytics.Span(cfg.Records)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/summary", s.summaryHandler)
	mux.HandleFunc("/api/geo", s.geoHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok\n")); err != nil {
			s.log.Error("failed to write healthz response", "error", err)
		}
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Ready != nil && !s.cfg.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok\n")); err != nil {
			s.log.Error("failed to write readyz response", "error", err)
		}
	})
	s.mux = mux

	s.httpSrv = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	return s, nil
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server: listening", "addr", s.cfg.ListenAddr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

// ErrorResponse is the JSON body for client errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rng := s.span
	if startParam := r.URL.Query().Get("start"); startParam != "" {
		t, _, err := parseTimeParam(startParam)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid start: %v", err))
			return
		}
		rng.Start = t
	}
	if endParam := r.URL.Query().Get("end"); endParam != "" {
		t, dateOnly, err := parseTimeParam(endParam)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid end: %v", err))
			return
		}
		// A date-only end means "through that whole day".
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		rng.End = t
	}

	summarizeStart := time.Now()
	sum := analytics.Summarize(s.cfg.Records, rng)
	metrics.SummaryDuration.Observe(time.Since(summarizeStart).Seconds())
	metrics.SummaryRequestsTotal.WithLabelValues("ok").Inc()

	s.writeJSON(w, http.StatusOK, sum)
}

// GeoResponse maps zip prefixes to their representative points.
type GeoResponse struct {
	Points map[string]geo.Point `json:"points"`
	Count  int                  `json:"count"`
}

func (s *Server) geoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, GeoResponse{
		Points: s.resolved,
		Count:  len(s.resolved),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	metrics.SummaryRequestsTotal.WithLabelValues("error").Inc()
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

// Accepted time formats for the start/end query parameters.
var timeParamLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeParam parses a start/end parameter. The second return reports
// whether the value carried only a calendar date, so the caller can widen a
// date-only end to cover its whole day.
func parseTimeParam(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeParamLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), layout == "2006-01-02", nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized time %q (want RFC3339 or YYYY-MM-DD)", s)
}
