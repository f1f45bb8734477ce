package grpc

import (
	"fmt"
	"log"
	"net"

	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/v1"
)

// ServiceName is the health service name reported next to the overall status.
const ServiceName = "reaction-ledger"

// HealthServer exposes the standard gRPC health service. It reports SERVING
// only while the gateway session is connected.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	lis    net.Listener
}

// NewHealthServer creates a server that starts out NOT_SERVING.
func NewHealthServer() *HealthServer {
	h := &HealthServer{
		server: grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(h.server, h.health)
	h.SetServing(false)
	return h
}

// Start listens on addr and serves in the background. It returns the bound address.
func (h *HealthServer) Start(addr string) (net.Addr, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	h.lis = lis

	go func() {
		log.Printf("gRPC health server listening on %s", lis.Addr())
		if err := h.server.Serve(lis); err != nil {
			log.Printf("gRPC health server stopped: %v", err)
		}
	}()
	return lis.Addr(), nil
}

// SetServing flips both the overall and the named service status.
func (h *HealthServer) SetServing(serving bool) {
	if h == nil {
		return
	}
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Stop marks every service NOT_SERVING and stops the server.
func (h *HealthServer) Stop() {
	if h == nil {
		return
	}
	h.health.Shutdown()
	h.server.GracefulStop()
}
