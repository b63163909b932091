package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/townpass/roadwatch/client"
	"github.com/townpass/roadwatch/internal/config"
)

var (
	apiBase     string
	debug       bool
	timeout     time.Duration
	metricsAddr string

	metricsSrv *http.Server
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = &config.Config{LogLevel: "info", HTTPTimeout: 30 * time.Second}
	}

	rootCmd := &cobra.Command{
		Use:           "roadwatch",
		Short:         "roadwatch CLI for construction data, road segments and favorites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.InitLogger()
			if cfgErr != nil {
				return cfgErr
			}

			if debug {
				config.SetLogLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				config.SetLogLevel(cfg.Level())
			}

			if metricsAddr != "" {
				startMetricsServer(metricsAddr)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			stopMetricsServer()
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", cfg.APIBase, "Base URL of the roadwatch backend (env ROADWATCH_API_BASE)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", cfg.Debug, "Enable verbose debug output, including HTTP dumps")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", cfg.HTTPTimeout, "Per-request HTTP timeout")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address while the command runs")

	rootCmd.AddCommand(newHelloCmd())
	rootCmd.AddCommand(newEchoCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newTestRecordsCmd())
	rootCmd.AddCommand(newConstructionCmd())
	rootCmd.AddCommand(newRoadsCmd())
	rootCmd.AddCommand(newFavoritesCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// newClient builds a client from the persistent flags.
func newClient(opts ...client.Option) (*client.Client, error) {
	base := []client.Option{
		client.WithHTTPTimeout(timeout),
		client.WithDebugLogging(debug),
	}
	c, err := client.New(apiBase, append(base, opts...)...)
	if errors.Is(err, client.ErrMissingBaseURL) {
		return nil, fmt.Errorf("--api-base or ROADWATCH_API_BASE is required")
	}
	return c, err
}

func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	srv := metricsSrv
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics on /metrics")
}

func stopMetricsServer() {
	if metricsSrv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(ctx)
	metricsSrv = nil
}
