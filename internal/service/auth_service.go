package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planet-beauty/internal/auth"
	"planet-beauty/internal/model"
	"planet-beauty/internal/repository"
	"planet-beauty/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenIssuer signs session tokens for users.
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

// authService implements AuthService.
type authService struct {
	userRepo  repository.UserRepository
	tokens    TokenIssuer
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	validator *validation.Validator,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, model.Invalid("signup request is required")
	}
	req.Email = normaliseEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         model.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, model.Invalid("login request is required")
	}
	req.Email = normaliseEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info().Msg("rejected login")
		return nil, model.ErrInvalidCredential
	}

	return s.respond(user)
}

func (s *authService) Me(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if identity == nil {
		return nil, model.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		// Token outlived the account.
		return nil, model.ErrUnauthenticated
	}
	return user, nil
}

func (s *authService) respond(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
