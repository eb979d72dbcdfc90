package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/security-panel/internal/config"
	"github.com/oshokin/security-panel/internal/service/panel"
	"github.com/oshokin/security-panel/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// metricsAddress enables the Prometheus endpoint.
	metricsAddress string

	// rootCmd represents the base command for running the panel.
	rootCmd = &cobra.Command{
		Use:   "security-panel [backend-url]",
		Short: "Disarm the alarm and watch its live state.",
		Long: `Interactive control panel for a remotely armed security device.

Each line typed on stdin is submitted as a disarm code to the alarm controller.
An accepted code disarms the alarm and sends a separate command that silences
the LED and buzzer. The alarm status is polled every 5 seconds and shown
whenever it changes, including changes made by other operators or the device.
Backend URL can be provided as argument, SECURITY_PANEL_BACKEND_URL, or the configuration file.

Press Ctrl+C to close the panel.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use backend URL argument if provided, otherwise rely on config.
			var backendURL string
			if len(args) > 0 {
				backendURL = args[0]
			}

			return panel.Run(ctx, &panel.Options{
				ConfigPath:     configPath,
				BackendURL:     backendURL,
				LogLevel:       logLevel,
				MetricsAddress: metricsAddress,
			})
		},
	}
)

// Execute runs the security-panel CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&metricsAddress, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
}
