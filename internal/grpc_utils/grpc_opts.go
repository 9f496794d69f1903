package grpc_utils

import (
	"errors"
	"log/slog"
	"runtime/debug"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrFailedToRegisterMetrics = errors.New("failed to register gRPC server metrics")

type ServerConfig struct {
	// Registerer receives the server metrics. Nil disables them.
	Registerer     prometheus.Registerer
	TracingEnabled bool
}

func GetGRPCServerOpts(logger *slog.Logger, cfg ServerConfig) (*grpcprom.ServerMetrics, []grpc.ServerOption, func(), error) {
	rpcLogger := logger.With(slog.String("service", "gRPC/server"))

	opts := make([]grpc.ServerOption, 0)
	cleanup := func() {}

	if cfg.TracingEnabled {
		opts = append(opts, grpc.StatsHandler(otelgrpc.NewServerHandler()))
	}

	var srvMetrics *grpcprom.ServerMetrics
	var chainUnaryInterceptors []grpc.UnaryServerInterceptor

	if cfg.Registerer != nil {
		srvMetrics = grpcprom.NewServerMetrics(
			grpcprom.WithServerHandlingTimeHistogram(
				grpcprom.WithHistogramBuckets([]float64{0.001, 0.01, 0.1, 0.3, 0.6, 1, 3, 6}),
			),
		)

		err := cfg.Registerer.Register(srvMetrics)
		if err != nil {
			return nil, nil, nil, errors.Join(ErrFailedToRegisterMetrics, err)
		}

		cleanup = func() {
			cfg.Registerer.Unregister(srvMetrics)
		}

		chainUnaryInterceptors = append(chainUnaryInterceptors, srvMetrics.UnaryServerInterceptor())
	}

	grpcPanicRecoveryHandler := func(p any) (err error) {
		rpcLogger.Error("recovered from panic", "panic", p, "stack", string(debug.Stack()))
		return status.Errorf(codes.Internal, "%s", p)
	}

	chainUnaryInterceptors = append(chainUnaryInterceptors,
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(grpcPanicRecoveryHandler)))

	opts = append(opts, grpc.ChainUnaryInterceptor(chainUnaryInterceptors...))

	return srvMetrics, opts, cleanup, nil
}
