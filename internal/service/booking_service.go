package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/repository/ports"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingValidation = errors.New("booking validation failed")
)

type BookingService struct {
	bookings     ports.BookingRepository
	destinations ports.DestinationRepository
}

func NewBookingService(bookingRepo ports.BookingRepository, destRepo ports.DestinationRepository) *BookingService {
	return &BookingService{bookings: bookingRepo, destinations: destRepo}
}

func (s *BookingService) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if err := s.validateCreate(ctx, booking); err != nil {
		return nil, err
	}

	if booking.Status == "" {
		booking.Status = domain.BookingStatusPending
	}
	if booking.Reference == "" {
		booking.Reference = uuid.NewString()
	}

	return s.bookings.Create(ctx, booking)
}

// Get returns the booking only when it belongs to userID; a booking owned by
// someone else is indistinguishable from a missing one.
func (s *BookingService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Booking, error) {
	limit, offset = normalizePage(limit, offset)
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *BookingService) Update(ctx context.Context, id, userID uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error) {
	booking, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrBookingValidation, *update.Status)
	}
	if update.NumberOfGuests != nil && *update.NumberOfGuests < 1 {
		return nil, fmt.Errorf("%w: number_of_guests must be at least 1", ErrBookingValidation)
	}

	checkIn := booking.CheckInDate
	checkOut := booking.CheckOutDate
	if update.CheckInDate != nil {
		checkIn = *update.CheckInDate
	}
	if update.CheckOutDate != nil {
		checkOut = *update.CheckOutDate
	}
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: check_out_date must be after check_in_date", ErrBookingValidation)
	}

	updated, err := s.bookings.Update(ctx, id, update)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *BookingService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrBookingNotFound
		}
		return err
	}
	return nil
}

func (s *BookingService) validateCreate(ctx context.Context, booking *domain.Booking) error {
	if booking.DestinationID == uuid.Nil {
		return fmt.Errorf("%w: destination_id required", ErrBookingValidation)
	}
	if _, err := s.destinations.FindByID(ctx, booking.DestinationID); err != nil {
		if isNotFound(err) {
			return ErrDestinationNotFound
		}
		return err
	}
	if booking.CheckInDate.IsZero() || booking.CheckOutDate.IsZero() {
		return fmt.Errorf("%w: check_in_date and check_out_date required", ErrBookingValidation)
	}
	if !booking.CheckOutDate.After(booking.CheckInDate) {
		return fmt.Errorf("%w: check_out_date must be after check_in_date", ErrBookingValidation)
	}
	if booking.NumberOfGuests < 1 {
		return fmt.Errorf("%w: number_of_guests must be at least 1", ErrBookingValidation)
	}
	if booking.TotalAmount <= 0 {
		return fmt.Errorf("%w: total_amount must be positive", ErrBookingValidation)
	}
	if booking.Status != "" && !booking.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", ErrBookingValidation, booking.Status)
	}
	return nil
}
