package grpc

import (
	"context"
	"net"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// AuthService is the subset of *services.AuthService the transport needs.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
}

type GRPCServer struct {
	address string
	auth    AuthService
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewGRPCServer(a string, l logging.Logger, svc AuthService, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  logging.ForModule(l, "grpc_server"),
		auth:    svc,
		metrics: m,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	pb.RegisterAuthServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(pb.AuthService_ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	stopped := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			hs.Shutdown()
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	err := srv.Serve(lis)
	close(stopped)
	wg.Wait()

	return err
}
