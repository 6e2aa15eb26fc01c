package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/fieldmux/internal/auth"
	"github.com/danmuck/fieldmux/internal/config"
	"github.com/danmuck/fieldmux/internal/logging"
	"github.com/danmuck/fieldmux/internal/observability"
	"github.com/danmuck/fieldmux/internal/router"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	configPath string
	inputPath  string
	name       string
	adminAddr  string
	adminToken string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "cmd/fieldmuxctl/config.toml", "dispatch table config")
	flag.StringVar(&opts.inputPath, "input", "-", "message stream path (- for stdin)")
	flag.StringVar(&opts.name, "name", "fieldmuxctl", "router name used in logs and metrics")
	flag.StringVar(&opts.adminAddr, "admin", "", "optional admin listen address serving /health and /metrics")
	flag.StringVar(&opts.adminToken, "admin-token", os.Getenv("FIELDMUX_ADMIN_TOKEN"), "bearer token required on /metrics (empty leaves it open)")
	flag.Parse()

	logging.ConfigureRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "fieldmuxctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadTable(opts.configPath)
	if err != nil {
		return err
	}
	def, handler, err := config.BuildHandler(cfg, builtinActions())
	if err != nil {
		return err
	}

	logger := log.With().Str("router", opts.name).Logger()
	rt, err := router.New(router.DefaultConfig(opts.name), def, handler, logger)
	if err != nil {
		return err
	}

	in, closeInput, err := openInput(opts.inputPath)
	if err != nil {
		return err
	}
	defer closeInput()

	if strings.TrimSpace(opts.adminAddr) != "" {
		var guard auth.Validator
		if opts.adminToken != "" {
			guard = auth.StaticToken{Token: opts.adminToken}
		}
		srv := &http.Server{
			Addr: opts.adminAddr,
			Handler: observability.NewAdminRouter(logger, func() map[string]uint64 {
				s := rt.Stats()
				return map[string]uint64{"handled": s.Handled, "unhandled": s.Unhandled}
			}, guard),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go serveAdmin(srv, logger)
		defer shutdownAdmin(srv, logger)
	}

	logger.Info().
		Str("config", opts.configPath).
		Str("message", def.Name()).
		Int("callbacks", handler.Len()).
		Msg("fieldmuxctl ready")

	serveErr := rt.Serve(ctx, in)
	stats := rt.Stats()
	logger.Info().
		Uint64("handled", stats.Handled).
		Uint64("unhandled", stats.Unhandled).
		Msg("fieldmuxctl done")
	if errors.Is(serveErr, context.Canceled) {
		return nil
	}
	return serveErr
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input (%s): %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func serveAdmin(srv *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", srv.Addr).Msg("admin listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("admin server failed")
	}
}

func shutdownAdmin(srv *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("admin shutdown")
	}
}
