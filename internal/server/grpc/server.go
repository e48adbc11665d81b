// Package grpc exposes the standard grpc.health.v1 service so orchestrators
// can check the backend next to the HTTP API.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/nihongo/internal/logging"
)

// ServiceName is the health entry reported for the study backend itself.
const ServiceName = "nihongo.Backend"

const (
	DefaultReadinessInterval = 15 * time.Second
	readinessTimeout         = 5 * time.Second
)

type GRPCServer struct {
	address  string
	ready    func(ctx context.Context) error
	interval time.Duration
	health   *health.Server
	logger   logging.Logger
}

// NewGRPCServer builds a health server. ready is checked before serving and
// then every DefaultReadinessInterval; a nil ready means the backend is
// always considered up.
func NewGRPCServer(a string, l logging.Logger, ready func(ctx context.Context) error) *GRPCServer {
	return &GRPCServer{
		address:  a,
		ready:    ready,
		interval: DefaultReadinessInterval,
		health:   health.NewServer(),
		logger:   l.With("module", "grpc_server"),
	}
}

// Status reports the serving status currently published for ServiceName.
func (s *GRPCServer) Status(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func (s *GRPCServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *GRPCServer) checkReady(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	if s.ready == nil {
		return healthpb.HealthCheckResponse_SERVING
	}
	pctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := s.ready(pctx); err != nil {
		s.logger.Warn(ctx, "backend not ready", "error", err)
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// watchReadiness republishes the readiness result until ctx is done. Changes
// are logged once.
func (s *GRPCServer) watchReadiness(ctx context.Context, current healthpb.HealthCheckResponse_ServingStatus) {
	if s.ready == nil || s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := s.checkReady(ctx)
			if ctx.Err() != nil {
				return
			}
			if st != current {
				s.logger.Info(ctx, "health status changed", "from", current.String(), "to", st.String())
				current = st
				s.setStatus(st)
			}
		}
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.health)

	status := s.checkReady(ctx)
	s.setStatus(status)
	go s.watchReadiness(ctx, status)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
