package grpc

import (
	"context"
	"errors"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Signup(ctx context.Context, req *pb.CredentialsRequest) (*pb.AuthResponse, error) {
	res, err := s.auth.Signup(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.AuthResponse{Success: true, Token: res.Token}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.CredentialsRequest) (*pb.AuthResponse, error) {
	res, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.AuthResponse{Success: true, Token: res.Token}, nil
}

func (s *GRPCServer) LandingPage(ctx context.Context, _ *pb.LandingPageRequest) (*pb.LandingPageResponse, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, services.MsgTokenMissing)
	}
	return &pb.LandingPageResponse{Success: true, Message: pb.LandingPageMessage, Email: p.Email}, nil
}

// toStatus converts service errors to gRPC statuses. Anything that is not an
// AuthError is reported as a generic internal failure.
func toStatus(err error) error {
	var aerr *services.AuthError
	if errors.As(err, &aerr) {
		return status.Error(aerr.Kind.GRPCCode(), aerr.Message)
	}
	return status.Error(codes.Internal, services.MsgInternal)
}
