package grpc

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/batch-inventory/pkg/logger"
)

// ServiceName is the health service name reported for the inventory service
const ServiceName = "inventory.v1.InventoryService"

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthMonitor keeps the gRPC health status in line with database health
type HealthMonitor struct {
	server *health.Server
	db     Pinger
}

// NewHealthMonitor creates a health monitor backed by db
func NewHealthMonitor(db Pinger) *HealthMonitor {
	return &HealthMonitor{
		server: health.NewServer(),
		db:     db,
	}
}

// Check pings the database once and updates the serving status
func (m *HealthMonitor) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := m.db.PingContext(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("gRPC health: database ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)
	return status
}

// Run checks health on every tick until ctx is done
func (m *HealthMonitor) Run(ctx context.Context, interval time.Duration) {
	m.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// HealthServer exposes the underlying grpc_health_v1 implementation
func (m *HealthMonitor) HealthServer() healthpb.HealthServer {
	return m.server
}

// NewServer creates a gRPC server with tracing and logging that serves the health service
func NewServer(monitor *HealthMonitor) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor),
	)

	healthpb.RegisterHealthServer(grpcServer, monitor.HealthServer())

	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(grpcServer)

	return grpcServer
}

// LoggingInterceptor logs gRPC requests
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start)
	if err != nil {
		logger.Error(ctx).Err(err).
			Str("method", info.FullMethod).
			Dur("duration", duration).
			Msg("gRPC request failed")
	} else {
		logger.Debug(ctx).
			Str("method", info.FullMethod).
			Dur("duration", duration).
			Msg("gRPC request completed")
	}

	return resp, err
}
