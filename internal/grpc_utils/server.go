package grpc_utils

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var ErrServerFailedToListen = errors.New("GRPC server failed to listen")

type GrpcServer struct {
	Srv *grpc.Server

	logger  *slog.Logger
	cleanup func()
}

func NewHealthServer(logger *slog.Logger, serv grpc_health_v1.HealthServer, cfg ServerConfig) (*GrpcServer, error) {
	metrics, grpcOpts, cleanupFn, err := GetGRPCServerOpts(logger, cfg)
	if err != nil {
		return nil, err
	}

	grpcSrv := grpc.NewServer(grpcOpts...)

	grpc_health_v1.RegisterHealthServer(grpcSrv, serv)
	reflection.Register(grpcSrv)

	if metrics != nil {
		metrics.InitializeMetrics(grpcSrv)
	}

	return &GrpcServer{
		Srv:     grpcSrv,
		logger:  logger.With(slog.String("service", "health-server")),
		cleanup: cleanupFn,
	}, nil
}

func ServeNewHealthServer(logger *slog.Logger, serv grpc_health_v1.HealthServer, address string, cfg ServerConfig) (*GrpcServer, error) {
	srv, err := NewHealthServer(logger, serv, cfg)
	if err != nil {
		return nil, err
	}

	err = srv.ListenAndServe(address)
	if err != nil {
		srv.GracefulStop()
		return nil, err
	}

	return srv, nil
}

func (s *GrpcServer) ListenAndServe(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Join(ErrServerFailedToListen, fmt.Errorf("address %s: %w", address, err))
	}

	go func() {
		s.logger.Info("GRPC server listening", slog.String("address", address))
		serveErr := s.Srv.Serve(listener)
		if serveErr != nil {
			s.logger.Error("GRPC server failed to serve", slog.String("err", serveErr.Error()))
		}
	}()

	return nil
}

func (s *GrpcServer) GracefulStop() {
	s.logger.Info("Shutting down")

	s.Srv.GracefulStop()

	if s.cleanup != nil {
		s.cleanup()
	}

	s.logger.Info("Shutdown complete")
}
