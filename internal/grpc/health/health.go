// Package health exposes report service readiness over the standard gRPC
// health protocol.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name clients can query besides ""
const ServiceName = "vigilant.v1.ScamDetection"

// CheckFunc reports whether the service can serve traffic
type CheckFunc func(ctx context.Context) error

// Register adds the health service to grpcServer and refreshes its status
// every interval until ctx is done.
func Register(ctx context.Context, grpcServer *grpc.Server, check CheckFunc, interval time.Duration) *health.Server {
	healthServer := health.NewServer()
	Update(ctx, healthServer, check)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				healthServer.Shutdown()
				return
			case <-ticker.C:
				Update(ctx, healthServer, check)
			}
		}
	}()

	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	return healthServer
}

// Update runs check once and sets the serving status of both service names
func Update(ctx context.Context, hs *health.Server, check CheckFunc) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if check != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := check(checkCtx); err != nil {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(ServiceName, status)
}
