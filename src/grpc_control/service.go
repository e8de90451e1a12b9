// Package grpc_control exposes the standard gRPC health service. The sync
// service reports SERVING once a refresh succeeds and NOT_SERVING after a
// failed one; the overall ("") status stays SERVING while the process runs.
package grpc_control

import (
	"fmt"
	"net"
	"sync"

	"milk-admin/src/logger"
	"milk-admin/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SyncServiceName is the health service name that tracks backend sync.
const SyncServiceName = "milkadmin.Sync"

// IStatusSource is implemented by the sync manager.
type IStatusSource interface {
	OnStatus(fn func(models.MSyncStatus))
}

// ControlService owns the gRPC server and its health registry.
type ControlService struct {
	Config *models.MConfig
	Health *health.Server
	Logger *logger.Logger

	mu         sync.Mutex
	grpcServer *grpc.Server
	last       healthpb.HealthCheckResponse_ServingStatus
}

// NewControlService creates a new instance of ControlService
func NewControlService(cfg *models.MConfig, source IStatusSource, log *logger.Logger) *ControlService {
	if log == nil {
		log = logger.NewLogger(cfg, "ControlService")
	}
	s := &ControlService{
		Config: cfg,
		Health: health.NewServer(),
		Logger: log,
		last:   healthpb.HealthCheckResponse_NOT_SERVING,
	}
	s.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.Health.SetServingStatus(SyncServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	if source != nil {
		source.OnStatus(s.ReportStatus)
	}
	return s
}

// -----------------------------------------------------------------------------

// ReportStatus maps one sync outcome onto the health registry.
func (s *ControlService) ReportStatus(st models.MSyncStatus) {
	next := healthpb.HealthCheckResponse_SERVING
	if st.LastError != "" || st.SyncCount == 0 {
		next = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.mu.Lock()
	changed := next != s.last
	s.last = next
	s.mu.Unlock()

	s.Health.SetServingStatus(SyncServiceName, next)
	if changed {
		s.Logger.Info("Sync health is now %s", next.String())
	}
}

// -----------------------------------------------------------------------------

// Register adds the health service to an existing gRPC server.
func (s *ControlService) Register(gs *grpc.Server) {
	healthpb.RegisterHealthServer(gs, s.Health)
}

// Serve blocks serving gRPC on lis until Stop.
func (s *ControlService) Serve(lis net.Listener) error {
	gs := grpc.NewServer()
	s.Register(gs)

	s.mu.Lock()
	s.grpcServer = gs
	s.mu.Unlock()

	s.Logger.Info("Starting gRPC Control Server on %s", lis.Addr().String())
	return gs.Serve(lis)
}

// Start listens on grpc_host:grpc_port and serves.
func (s *ControlService) Start() error {
	port := s.Config.GrpcPort
	if port == 0 {
		port = 50051 // Default fallback
	}
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.Config.GrpcHost, port))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	return s.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains the server.
func (s *ControlService) Stop() {
	s.Health.Shutdown()

	s.mu.Lock()
	gs := s.grpcServer
	s.grpcServer = nil
	s.mu.Unlock()

	if gs != nil {
		gs.GracefulStop()
	}
}
