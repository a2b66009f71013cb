package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/fatura/internal/generator"
	"github.com/rezonia/fatura/internal/observability/metrics"
	"github.com/rezonia/fatura/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for rendering invoices.

The API provides endpoints for:
  - POST /api/v1/invoices/pdf       - Render a record as PDF
  - POST /api/v1/invoices/layout    - Render a record as a JSON layout
  - POST /api/v1/invoices/validate  - Validate a record
  - POST /api/v1/zatca/qr           - Build a QR payload (and PNG)
  - POST /api/v1/zatca/decode       - Decode a QR payload
  - POST /api/v1/pdf/inspect        - Check a PDF document
  - GET  /health                    - Health check
  - GET  /metrics                   - Prometheus metrics

Examples:
  # Start server on default port
  fatura serve

  # Start on custom port with an Arabic font
  fatura serve --address :9000 --font-regular fonts/Cairo-Regular.ttf

  # Start in debug mode
  fatura serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (env: FATURA_ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode (env: FATURA_DEBUG)")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "HTTP read timeout (env: FATURA_READ_TIMEOUT)")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout (env: FATURA_WRITE_TIMEOUT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serverAddr == "" {
		serverAddr = cfg.Address
	}
	if readTimeout == 0 {
		readTimeout = cfg.ReadTimeout
	}
	if writeTimeout == 0 {
		writeTimeout = cfg.WriteTimeout
	}
	if serverDebug {
		cfg.Debug = true
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg, metrics.Config{ServiceName: cfg.AppName, Environment: cfg.Environment})
	if err != nil {
		return err
	}

	gen, err := newGenerator(log, generator.WithMetrics(m))
	if err != nil {
		return err
	}

	config := &server.Config{
		Address:        serverAddr,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		RequestTimeout: writeTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		QRSize:         cfg.QRSize,
		Debug:          cfg.Debug,
	}
	srv := server.NewServer(config,
		server.WithGenerator(gen),
		server.WithLogger(log),
		server.WithGatherer(reg),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting server",
		zap.String("address", serverAddr),
		zap.Duration("read_timeout", readTimeout),
		zap.Duration("write_timeout", writeTimeout),
	)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	log.Info("server stopped")
	return nil
}
