package server

import (
	"context"
	"fmt"

	"cricket-score/internal/auth"
	"cricket-score/internal/domain"
)

type AuthServer struct {
	issuer *auth.Issuer
}

func NewAuthServer(issuer *auth.Issuer) *AuthServer {
	return &AuthServer{issuer: issuer}
}

func (s *AuthServer) Login(_ context.Context, req *LoginRequest) (*auth.Token, error) {
	return s.issuer.Login(req.Username, req.Password)
}

func (s *AuthServer) Me(ctx context.Context, _ *MeRequest) (*MeResponse, error) {
	claims := auth.FromContext(ctx)
	if claims == nil {
		return nil, fmt.Errorf("not logged in: %w", domain.ErrUnauthorized)
	}
	res := &MeResponse{Username: claims.Username}
	if claims.ExpiresAt != nil {
		res.ExpiresAt = claims.ExpiresAt.Time
	}
	return res, nil
}
