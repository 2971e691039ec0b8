package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planet-beauty/internal/model"
	"planet-beauty/internal/notify"
	"planet-beauty/internal/repository"
	"planet-beauty/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bookingService implements BookingService.
type bookingService struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.SalonServiceRepository
	validator   *validation.Validator
	notifier    notify.Dispatcher
	now         func() time.Time
	logger      zerolog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.SalonServiceRepository,
	validator *validation.Validator,
	notifier notify.Dispatcher,
	logger zerolog.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		validator:   validator,
		notifier:    notifier,
		now:         time.Now,
		logger:      logger.With().Str("service", "booking").Logger(),
	}
}

func (s *bookingService) ListServices(ctx context.Context, filter model.SalonServiceFilter) ([]model.SalonService, error) {
	services, err := s.serviceRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("category", filter.Category).Msg("failed to list salon services")
		return nil, fmt.Errorf("failed to get services: %w", err)
	}
	return services, nil
}

// Create reserves a slot for the requested service.
func (s *bookingService) Create(ctx context.Context, identity *model.Identity, req *model.CreateBookingRequest) (*model.Booking, error) {
	if req == nil {
		return nil, model.Invalid("booking request is required")
	}
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return nil, model.Invalid("date must match YYYY-MM-DD")
	}

	taken, err := s.bookingRepo.ExistsActiveAt(ctx, date, req.Time)
	if err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Str("time", req.Time).Msg("failed to check slot")
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if taken {
		s.logger.Info().Str("date", req.Date).Str("time", req.Time).Msg("slot already booked")
		return nil, model.ErrSlotTaken
	}

	svc, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		s.logger.Error().Err(err).Str("service_id", req.ServiceID).Msg("failed to get salon service")
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil {
		return nil, model.ErrServiceNotFound
	}

	now := s.now().UTC()
	booking := &model.Booking{
		ID:            uuid.New(),
		ServiceID:     svc.ID,
		Date:          date,
		DateString:    req.Date,
		Time:          req.Time,
		Duration:      svc.Duration,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Stylist:       svc.Stylist,
		Status:        model.BookingStatusPending,
		TotalPrice:    svc.Price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if identity != nil {
		userID := identity.UserID
		booking.UserID = &userID
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to create booking")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	booking.Service = svc

	if err := s.notifier.Send(ctx, notify.BookingConfirmation(booking)); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to send booking confirmation")
	}

	s.logger.Info().
		Str("booking_id", booking.ID.String()).
		Str("service_id", svc.ID).
		Str("date", booking.DateString).
		Str("time", booking.Time).
		Msg("booking created successfully")

	return booking, nil
}

// List scopes non-admin callers to their own bookings.
func (s *bookingService) List(ctx context.Context, identity *model.Identity, filter model.BookingFilter) ([]model.Booking, error) {
	if identity == nil {
		return nil, model.ErrUnauthenticated
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, model.Invalid("status must be one of pending, confirmed, completed, cancelled")
	}
	if !identity.IsAdmin() {
		userID := identity.UserID
		filter.UserID = &userID
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("failed to list bookings")
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to get booking")
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, model.ErrBookingNotFound
	}

	svc, err := s.serviceRepo.GetByID(ctx, booking.ServiceID)
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", id.String()).Msg("failed to attach salon service")
	}
	booking.Service = svc

	return booking, nil
}

// Update applies the allow-listed fields. A status change must follow the booking lifecycle.
func (s *bookingService) Update(ctx context.Context, id uuid.UUID, update *model.BookingUpdate) (*model.Booking, error) {
	if update == nil {
		return nil, model.Invalid("update is required")
	}
	if err := s.validator.Struct(update); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to get booking")
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, model.ErrBookingNotFound
	}

	if update.Status != nil && *update.Status != booking.Status {
		next := *update.Status
		if !next.IsValid() {
			return nil, model.Invalid("status must be one of pending, confirmed, completed, cancelled")
		}
		if !booking.Status.CanTransitionTo(next) {
			return nil, model.NewDomainError(model.KindValidation, model.ErrCodeInvalidState,
				fmt.Sprintf("Cannot change booking status from %s to %s", booking.Status, next))
		}
		booking.Status = next
	}
	if update.Stylist != nil {
		booking.Stylist = update.Stylist
	}
	if update.Notes != nil {
		booking.Notes = update.Notes
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, model.ErrSlotTaken) || errors.Is(err, model.ErrBookingNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to update booking")
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.logger.Info().
		Str("booking_id", id.String()).
		Str("status", string(booking.Status)).
		Msg("booking updated")

	return s.GetByID(ctx, id)
}

func (s *bookingService) Delete(ctx context.Context, id uuid.UUID) error {
	existed, err := s.bookingRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to delete booking")
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if !existed {
		return model.ErrBookingNotFound
	}

	s.logger.Info().Str("booking_id", id.String()).Msg("booking deleted")
	return nil
}
