package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

// AuthService handles login and signup against the backend
type AuthService struct {
	client *apiclient.Client
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(client *apiclient.Client, logger zerolog.Logger) *AuthService {
	return &AuthService{
		client: client,
		logger: logger,
	}
}

// Login exchanges credentials for a token and the user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := s.client.Post(ctx, routeLogin, req, &resp); err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		return nil, err
	}
	resp.Token = normalizeToken(resp.Token)
	if resp.Token == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Login response did not include a token")
	}

	s.logger.Info().Str("userId", resp.User.ID).Str("schoolId", resp.User.SchoolID).Msg("User logged in")
	return &resp, nil
}

// Register creates an account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !req.Role.IsValid() {
		return nil, apperrors.NewValidationError("Role is required", map[string]string{"role": "Role is required"})
	}

	var resp dto.AuthResponse
	if err := s.client.Post(ctx, routeRegister, req, &resp); err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		return nil, err
	}
	resp.Token = normalizeToken(resp.Token)

	s.logger.Info().Str("userId", resp.User.ID).Msg("User registered")
	return &resp, nil
}

// normalizeToken strips quotes some backends leave around the token
func normalizeToken(token string) string {
	return strings.ReplaceAll(strings.TrimSpace(token), `"`, "")
}
