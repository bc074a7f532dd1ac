package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"

	"github.com/ecomlabs/orderlake/pkg/ingest"
	"github.com/ecomlabs/orderlake/pkg/server"
	"github.com/ecomlabs/orderlake/pkg/server/metrics"
	"github.com/ecomlabs/orderlake/pkg/warehouse"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	defaultListenAddr      = "0.0.0.0:3010"
	defaultOrdersCSV       = "data/df.csv"
	defaultGeolocationCSV  = "data/geolocation.csv"
	defaultPublishInterval = 15 * time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	listenAddrFlag := flag.String("listen-addr", defaultListenAddr, "HTTP server listen address (or set LISTEN_ADDR env var)")
	ordersCSVFlag := flag.String("orders-csv", defaultOrdersCSV, "Path to the joined order dataset CSV (or set ORDERS_CSV env var)")
	geolocationCSVFlag := flag.String("geolocation-csv", defaultGeolocationCSV, "Path to the geolocation dataset CSV (or set GEOLOCATION_CSV env var)")
	warehousePathFlag := flag.String("warehouse-path", "", "Path to the DuckDB warehouse database; empty disables publication (or set WAREHOUSE_PATH env var)")
	publishIntervalFlag := flag.Duration("publish-interval", defaultPublishInterval, "Interval between warehouse publishes")
	flag.Parse()

	// Optional .env, for local development
	_ = godotenv.Load()

	// Override flags with environment variables if set
	if env := os.Getenv("LISTEN_ADDR"); env != "" {
		*listenAddrFlag = env
	}
	if env := os.Getenv("ORDERS_CSV"); env != "" {
		*ordersCSVFlag = env
	}
	if env := os.Getenv("GEOLOCATION_CSV"); env != "" {
		*geolocationCSVFlag = env
	}
	if env := os.Getenv("WAREHOUSE_PATH"); env != "" {
		*warehousePathFlag = env
	}

	log := newLogger(*verboseFlag)
	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := ingest.LoadOrdersFile(*ordersCSVFlag)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	geoPoints, err := ingest.LoadGeolocationFile(*geolocationCSVFlag)
	if err != nil {
		return fmt.Errorf("failed to load geolocation: %w", err)
	}
	log.Info("datasets loaded", "orders", len(records), "geo_samples", len(geoPoints))
	if len(records) == 0 {
		log.Warn("order dataset is empty; summaries will be empty too")
	}

	var ready func() bool
	if *warehousePathFlag != "" {
		wh, err := warehouse.Open(ctx, log, *warehousePathFlag)
		if err != nil {
			return fmt.Errorf("failed to open warehouse: %w", err)
		}
		defer wh.Close()

		publisher, err := warehouse.NewPublisher(warehouse.PublisherConfig{
			Logger:          log,
			Warehouse:       wh,
			Records:         records,
			GeoPoints:       geoPoints,
			RefreshInterval: *publishIntervalFlag,
		})
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		publisher.Start(ctx)
		ready = publisher.Ready
	}

	srv, err := server.New(server.Config{
		Logger:     log,
		Records:    records,
		GeoPoints:  geoPoints,
		Ready:      ready,
		ListenAddr: *listenAddrFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
