package service

import (
	"context"
	"fmt"
	"strings"

	"planet-beauty/internal/model"
	"planet-beauty/internal/repository"
	"planet-beauty/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo  repository.UserRepository
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, validator *validation.Validator, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:  userRepo,
		validator: validator,
		logger:    logger.With().Str("service", "user").Logger(),
	}
}

// Get hides other customers' accounts behind NOT_FOUND.
func (s *userService) Get(ctx context.Context, identity *model.Identity, id uuid.UUID) (*model.User, error) {
	if identity == nil {
		return nil, model.ErrUnauthenticated
	}
	if !identity.IsAdmin() && identity.UserID != id {
		return nil, model.ErrUserNotFound
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, identity *model.Identity, id uuid.UUID, update *model.UserUpdate) (*model.User, error) {
	if update == nil {
		return nil, model.Invalid("update request is required")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, model.Invalid("name must not be empty")
		}
		update.Name = &name
	}
	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		update.Phone = &phone
	}
	if err := s.validator.Struct(update); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		// An empty phone clears it.
		if *update.Phone == "" {
			user.Phone = nil
		} else {
			user.Phone = update.Phone
		}
	}

	ok, err := s.userRepo.Update(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if !ok {
		return nil, model.ErrUserNotFound
	}

	s.logger.Info().
		Str("user_id", id.String()).
		Str("actor_id", identity.UserID.String()).
		Msg("user profile updated")
	return user, nil
}

func (s *userService) List(ctx context.Context, identity *model.Identity, page, limit int) (*model.UserList, error) {
	if identity == nil {
		return nil, model.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	users, total, err := s.userRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}

	return &model.UserList{
		Users:      users,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}
