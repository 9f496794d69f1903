package grpc_utils

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health/grpc_health_v1"
)

const (
	readiness = "readiness"

	pingTimeout = 5 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ConnectionChecker interface {
	IsConnected() bool
}

// HealthChecker reports liveness unconditionally. Readiness requires a reachable store and a
// connected message queue client.
type HealthChecker struct {
	grpc_health_v1.UnimplementedHealthServer

	logger   *slog.Logger
	store    Pinger
	mqClient ConnectionChecker
}

func NewHealthChecker(logger *slog.Logger, store Pinger, mqClient ConnectionChecker) *HealthChecker {
	return &HealthChecker{
		logger:   logger.With(slog.String("module", "health")),
		store:    store,
		mqClient: mqClient,
	}
}

func (h *HealthChecker) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	h.logger.Debug("Checking health", slog.String("service", req.Service))

	return &grpc_health_v1.HealthCheckResponse{
		Status: h.status(ctx, req.Service),
	}, nil
}

func (h *HealthChecker) Watch(req *grpc_health_v1.HealthCheckRequest, server grpc_health_v1.Health_WatchServer) error {
	h.logger.Debug("Watching health", slog.String("service", req.Service))

	return server.Send(&grpc_health_v1.HealthCheckResponse{
		Status: h.status(server.Context(), req.Service),
	})
}

func (h *HealthChecker) status(ctx context.Context, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if service != readiness {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}

	if h.store != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		err := h.store.Ping(pingCtx)
		if err != nil {
			h.logger.Error("No connection to DB", slog.String("err", err.Error()))
			return grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}

	if h.mqClient != nil && !h.mqClient.IsConnected() {
		h.logger.Error("Message queue client not connected")
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	return grpc_health_v1.HealthCheckResponse_SERVING
}
