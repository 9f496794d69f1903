package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/chainsink/geyser-sink/cmd/geyser-sink/services"
	"github.com/chainsink/geyser-sink/config"
	sinkLogger "github.com/chainsink/geyser-sink/internal/logger"
	"github.com/chainsink/geyser-sink/internal/version"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		log.Fatalf("failed to run geyser-sink: %v", err)
	}

	os.Exit(0)
}

func newRootCmd() *cobra.Command {
	var (
		configDir      string
		dumpConfigFile string
	)

	cmd := &cobra.Command{
		Use:          "geyser-sink",
		Short:        "Persists geyser account, slot and block events from a message queue into PostgreSQL",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(configDir, dumpConfigFile)
		},
	}

	cmd.Flags().StringVar(&configDir, "config", "", "directory to look for config.yaml")
	cmd.Flags().StringVar(&dumpConfigFile, "dump_config", "", "dump config to specified file and exit")

	return cmd
}

func run(configDir string, dumpConfigFile string) error {
	sinkConfig, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("failed to load app config: %w", err)
	}

	if dumpConfigFile != "" {
		return config.DumpConfig(dumpConfigFile)
	}

	err = sinkConfig.Validate()
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get host name: %v", err)
	}

	logger, err := sinkLogger.NewLogger(sinkConfig.LogLevel, sinkConfig.LogFormat, sinkLogger.WithAttrs(slog.String("host", hostname)))
	if err != nil {
		return fmt.Errorf("failed to create logger: %v", err)
	}

	logger.Info("Starting geyser-sink", slog.String("version", version.Version), slog.String("commit", version.Commit))

	go func() {
		if sinkConfig.ProfilerAddr != "" {
			logger.Info(fmt.Sprintf("Starting profiler on http://%s/debug/pprof", sinkConfig.ProfilerAddr))

			err := http.ListenAndServe(sinkConfig.ProfilerAddr, nil)
			if err != nil {
				logger.Error("failed to start profiler server", slog.String("err", err.Error()))
			}
		}
	}()

	if sinkConfig.Prometheus.IsEnabled() {
		go func() {
			logger.Info("Starting prometheus", slog.String("endpoint", sinkConfig.Prometheus.Endpoint))

			mux := http.NewServeMux()
			mux.Handle(sinkConfig.Prometheus.Endpoint, promhttp.Handler())

			err := http.ListenAndServe(sinkConfig.Prometheus.Addr, mux)
			if err != nil {
				logger.Error("failed to start prometheus server", slog.String("err", err.Error()))
			}
		}()
	}

	shutdownCh := make(chan string, 1)

	shutdown, err := services.StartSink(logger, sinkConfig, shutdownCh)
	if err != nil {
		return fmt.Errorf("failed to start geyser-sink: %v", err)
	}

	// setup signal catching
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case reason := <-shutdownCh:
		logger.Info("Received shutdown signal", slog.String("reason", reason))
	case sig := <-signalChan:
		logger.Info("Received shutdown signal", slog.String("reason", sig.String()))
	}

	logger.Info("cleaning up")
	shutdown()

	return nil
}
