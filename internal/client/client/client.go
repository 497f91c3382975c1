package client

import (
	"context"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
)

type Client interface {
	Close() error
	Signup(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	LandingPage(ctx context.Context, token string) (*pb.LandingPageResponse, error)
}
