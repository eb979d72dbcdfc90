package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/security-panel/internal/config"
	"github.com/oshokin/security-panel/internal/logger"
	"github.com/oshokin/security-panel/internal/metrics"
	"github.com/oshokin/security-panel/internal/service/common"
	"github.com/oshokin/security-panel/internal/service/poller"
	"github.com/oshokin/security-panel/internal/service/submitter"
	"github.com/oshokin/security-panel/internal/version"
)

// Options controls the panel process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// BackendURL overrides the backend URL from config when specified.
	BackendURL string
	// LogLevel overrides the log level from config when specified.
	LogLevel string
	// MetricsAddress overrides the metrics listen address from config when specified.
	MetricsAddress string
	// PollInterval overrides the fixed status poll interval; used by tests.
	PollInterval time.Duration
	// Input supplies codes, one per line. Defaults to stdin.
	Input io.Reader
	// Output receives the rendered panel. Defaults to stdout.
	Output io.Writer
}

// metricsShutdownTimeout bounds the graceful stop of the metrics server.
const metricsShutdownTimeout = 5 * time.Second

// Run shows the panel until ctx is cancelled. The poller starts with the
// panel and is cancelled exactly once on the way out.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "security-panel")

	// Load settings from configuration file and apply overrides.
	cfg, err := config.Load(
		opts.ConfigPath,
		config.WithBackendURL(opts.BackendURL),
		config.WithLogLevel(opts.LogLevel),
		config.WithMetricsAddress(opts.MetricsAddress),
	)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Apply the configured log level and tag every record with the backend.
	ctx = logger.WithKV(ctx, "backend_url", cfg.BackendURL)

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Fall back to the terminal for input and output.
	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}

	if out == nil {
		out = os.Stdout
	}

	// Prepare the HTTP client with the call timeout from configuration.
	client, err := common.NewClient(ctx, cfg.BackendURL, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("create backend client: %w", err)
	}

	// Render every state transition as it is applied.
	store := common.NewStore()
	renderer := NewRenderer(out)
	store.Subscribe(renderer.Render)

	// Submissions and polls share the same store.
	controller := submitter.New(client, store)

	logger.InfoKV(
		ctx,
		"Panel started",
		"version", version.Short(),
		"timeout", cfg.Timeout.String(),
	)
	renderer.Banner()

	// Start polling right away and stop it exactly once on exit.
	handle := poller.New(client, store, poller.WithInterval(opts.PollInterval)).Start(ctx)
	defer handle.Cancel()

	// Run the input loop and the optional metrics endpoint until ctx ends.
	group, groupCtx := errgroup.WithContext(ctx)

	if cfg.MetricsAddress != "" {
		serveMetrics(groupCtx, group, cfg.MetricsAddress)
	}

	group.Go(func() error {
		return readCodes(groupCtx, in, controller.Submit)
	})

	if err = group.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Panel closed")

	return nil
}

// serveMetrics runs the Prometheus endpoint inside the group until ctx ends.
func serveMetrics(ctx context.Context, group *errgroup.Group, address string) {
	metrics.Init()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group.Go(func() error {
		logger.InfoKV(ctx, "Metrics endpoint listening", "metrics_addr", address)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve metrics: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		//nolint:contextcheck // The parent is already done; shutdown needs its own deadline.
		return srv.Shutdown(shutdownCtx)
	})
}
