package services

/* Geyser Sink Service */
/*

This service consumes account, slot status and block events published by a validator geyser plugin
and persists them into PostgreSQL.

Key components:
- message queue client: one subscription per configured topic (kafka or nats jetstream)
- dispatcher: decodes the payloads and hands them to a bounded pool of workers
- filter: applies the allow-list to account updates and converts events into records
- retry queues: one unbounded FIFO per entity type between the filter and the executor
- executor: drains the queues into the store, requeues failed writes and reconnects to the store
- gRPC health server for liveness and readiness probes
- background task: periodically logs the counters

Graceful Shutdown: consumers are stopped first, then the dispatcher workers and the executor. Records
still queued at that point are not persisted.

*/

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chainsink/geyser-sink/config"
	"github.com/chainsink/geyser-sink/internal/dispatcher"
	"github.com/chainsink/geyser-sink/internal/events"
	"github.com/chainsink/geyser-sink/internal/executor"
	"github.com/chainsink/geyser-sink/internal/filter"
	"github.com/chainsink/geyser-sink/internal/grpc_utils"
	"github.com/chainsink/geyser-sink/internal/mq"
	"github.com/chainsink/geyser-sink/internal/queue"
	"github.com/chainsink/geyser-sink/internal/stats"
	"github.com/chainsink/geyser-sink/internal/store"
	"github.com/chainsink/geyser-sink/internal/store/memory"
	"github.com/chainsink/geyser-sink/internal/store/postgresql"
	"github.com/chainsink/geyser-sink/internal/tracing"
)

const (
	DbModePostgres = "postgres"
	DbModeMemory   = "memory"

	serviceName = "geyser-sink"
)

var ErrUnknownDbMode = errors.New("unknown db mode")

func StartSink(logger *slog.Logger, cfg *config.GeyserSinkConfig, shutdownCh chan<- string) (func(), error) {
	logger = logger.With(slog.String("service", serviceName))
	logger.Info("Starting")

	var (
		sinkStats      *stats.Stats
		sinkStore      store.SinkStore
		mqClient       mq.MessageQueueClient
		eventDispatch  *dispatcher.Dispatcher
		sinkExecutor   *executor.Executor
		healthServer   *grpc_utils.GrpcServer
		statsLogger    *statsReporter
		tracingCleanup func()
		err            error
	)

	stopFn := func() {
		logger.Info("Shutting down")
		disposeSink(logger, mqClient, eventDispatch, sinkExecutor, healthServer, statsLogger, sinkStore, sinkStats, tracingCleanup)
		logger.Info("Shutdown complete")
	}

	if cfg.Tracing.IsEnabled() {
		tracingCleanup, err = tracing.Enable(logger, serviceName, cfg.Tracing.DialAddr, cfg.Tracing.Sample)
		if err != nil {
			logger.Error("Failed to enable tracing", slog.String("err", err.Error()))
		}
	}

	sinkStats = stats.New()
	err = sinkStats.Register(prometheus.DefaultRegisterer)
	if err != nil {
		stopFn()
		return nil, fmt.Errorf("failed to register stats collectors: %v", err)
	}

	sinkStore, err = newStore(cfg.Db, cfg.Tracing)
	if err != nil {
		stopFn()
		return nil, fmt.Errorf("failed to create store: %v", err)
	}

	if !sinkStore.IsConnected() {
		logger.Warn("Store not reachable, writes wait for reconnection")
	}

	queues := queue.NewQueues()

	sinkExecutor = executor.New(logger, sinkStore, queues, sinkStats,
		executor.WithIdleInterval(cfg.Sink.IdleInterval),
		executor.WithReconnectInterval(cfg.Sink.ReconnectInterval),
		executor.WithMaxParallelWrites(cfg.Sink.MaxParallelWrites),
	)
	sinkExecutor.Start()

	accountFilter := filter.New(logger, queues, sinkStats, cfg.Filter.IncludeOwners, cfg.Filter.IncludePubkeys,
		filter.WithDuplicateWindow(cfg.Filter.DuplicateWindow),
	)

	subscriptions := []dispatcher.Subscription{
		{Topic: cfg.Topics.UpdateAccount, Kind: events.KindUpdateAccount},
		{Topic: cfg.Topics.UpdateSlot, Kind: events.KindUpdateSlot},
		{Topic: cfg.Topics.NotifyBlock, Kind: events.KindNotifyBlock},
	}

	topics := make([]string, 0, len(subscriptions))
	for _, sub := range subscriptions {
		if sub.Topic != "" {
			topics = append(topics, sub.Topic)
		}
	}

	clientClosedCh := make(chan struct{}, 1)
	mqClient, err = mq.NewMqClient(logger, cfg.MessageQueue, topics, cfg.Sink.ReceiveRetryInterval, clientClosedCh)
	if err != nil {
		stopFn()
		return nil, fmt.Errorf("failed to create message queue client: %v", err)
	}

	go func() {
		<-clientClosedCh
		select {
		case shutdownCh <- "message queue client closed":
		default:
		}
	}()

	dispatcherOpts := []func(*dispatcher.Dispatcher){dispatcher.WithWorkers(cfg.Sink.Workers)}
	if cfg.Tracing.IsEnabled() {
		dispatcherOpts = append(dispatcherOpts, dispatcher.WithTracer(cfg.Tracing.KeyValueAttributes...))
	}

	eventDispatch = dispatcher.New(logger, mqClient, accountFilter, sinkStats, dispatcherOpts...)
	err = eventDispatch.Start(subscriptions)
	if err != nil {
		stopFn()
		return nil, fmt.Errorf("failed to start dispatcher: %v", err)
	}

	serverCfg := grpc_utils.ServerConfig{TracingEnabled: cfg.Tracing.IsEnabled()}
	if cfg.Prometheus.IsEnabled() {
		serverCfg.Registerer = prometheus.DefaultRegisterer
	}

	healthServer, err = grpc_utils.ServeNewHealthServer(logger, grpc_utils.NewHealthChecker(logger, sinkStore, mqClient), cfg.Health.SeverDialAddr, serverCfg)
	if err != nil {
		stopFn()
		return nil, fmt.Errorf("failed to start health server: %v", err)
	}

	if cfg.Sink.StatsLogInterval > 0 {
		statsLogger = newStatsReporter(logger, sinkStats, cfg.Sink.StatsLogInterval)
	}

	logger.Info("Ready to work")

	return stopFn, nil
}

func newStore(dbConfig *config.DbConfig, tracingConfig *config.TracingConfig) (store.SinkStore, error) {
	switch dbConfig.Mode {
	case DbModePostgres:
		cfg := dbConfig.Postgres
		if cfg == nil {
			return nil, errors.New("postgres config is required")
		}

		var opts []func(*postgresql.PostgreSQL)
		if tracingConfig.IsEnabled() {
			opts = append(opts, postgresql.WithTracer(tracingConfig.KeyValueAttributes...))
		}

		s, err := postgresql.New(cfg.ConnectionString(), cfg.MaxIdleConns, cfg.MaxOpenConns, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres DB: %v", err)
		}

		return s, nil
	case DbModeMemory:
		return memory.New(), nil
	default:
		return nil, errors.Join(ErrUnknownDbMode, fmt.Errorf("mode: %s", dbConfig.Mode))
	}
}

type statsReporter struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newStatsReporter(logger *slog.Logger, s *stats.Stats, interval time.Duration) *statsReporter {
	ctx, cancel := context.WithCancel(context.Background())
	r := &statsReporter{cancel: cancel}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snapshot := s.Snapshot()
				logger.Info("Stats",
					slog.Any("messages_received", snapshot.MessagesReceived),
					slog.Uint64("bytes_received", snapshot.BytesReceived),
					slog.Uint64("consumer_errors", snapshot.ConsumerErrors),
					slog.Uint64("deserialize_errors", snapshot.DeserializeErrors),
					slog.Uint64("filtered_out", snapshot.FilteredOut),
					slog.Uint64("duplicates_skipped", snapshot.DuplicatesSkipped),
					slog.Any("records_written", snapshot.RecordsWritten),
					slog.Any("write_failures", snapshot.WriteFailures),
				)
			}
		}
	}()

	return r
}

func (r *statsReporter) Shutdown() {
	r.cancel()
	r.wg.Wait()
}

func disposeSink(l *slog.Logger, mqClient mq.MessageQueueClient, eventDispatch *dispatcher.Dispatcher,
	sinkExecutor *executor.Executor, healthServer *grpc_utils.GrpcServer, statsLogger *statsReporter,
	sinkStore store.SinkStore, sinkStats *stats.Stats, tracingCleanup func()) {
	// dispose the dependencies in the correct order:
	// 1. mqClient - ensure no new messages will be received
	// 2. dispatcher - wait for the running workers to enqueue their records
	// 3. executor - stop writing
	// 4. health server, stats reporter
	// 5. store

	if mqClient != nil {
		mqClient.Shutdown()
	}
	if eventDispatch != nil {
		eventDispatch.Shutdown()
	}
	if sinkExecutor != nil {
		sinkExecutor.Shutdown()
	}
	if healthServer != nil {
		healthServer.GracefulStop()
	}
	if statsLogger != nil {
		statsLogger.Shutdown()
	}
	if sinkStore != nil {
		err := sinkStore.Close()
		if err != nil {
			l.Error("Could not close the store", slog.String("err", err.Error()))
		}
	}
	if sinkStats != nil {
		sinkStats.Unregister(prometheus.DefaultRegisterer)
	}
	if tracingCleanup != nil {
		tracingCleanup()
	}
}
