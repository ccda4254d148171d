package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/internal/auth"
	"github.com/mmynk/rollbook/pkg/api"
	"github.com/mmynk/rollbook/pkg/api/apiconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	apiconnect.UnimplementedAuthServiceHandler
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login authenticates the operator and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "name", req.Msg.Name)

	// Validate input
	if err := validateRequest(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	// Authenticate operator
	op, err := s.authenticator.Authenticate(ctx, req.Msg.Name, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "name", req.Msg.Name, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	// Generate JWT token
	token, expiresAt, err := s.jwtManager.Generate(op)
	if err != nil {
		s.logger.Error("Failed to generate token", "operator", op.Name, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Operator logged in", "operator", op.Name)
	return connect.NewResponse(&api.LoginResponse{
		Token:     token,
		Operator:  op.Name,
		ExpiresAt: expiresAt.Unix(),
	}), nil
}
