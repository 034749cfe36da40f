package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/auth"
	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/repository"
)

// Authentication errors returned to the handler layer.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// AuthService exposes credential verification and token lifecycle.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.LoginResponse, error)
}

type authService struct {
	users     repository.UserRepository
	tokens    *auth.TokenIssuer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	username := strings.TrimSpace(payload.Username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, payload.Password) {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return dto.LoginResponse{}, ErrAccountInactive
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	claims, err := s.tokens.ParseRefresh(payload.RefreshToken)
	if err != nil {
		return dto.LoginResponse{}, ErrInvalidRefresh
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidRefresh
		}
		return dto.LoginResponse{}, err
	}
	if !user.IsActive {
		return dto.LoginResponse{}, ErrAccountInactive
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         dto.NewUserResponse(user),
	}, nil
}
