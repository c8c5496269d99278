package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	UserID          uuid.UUID     `db:"user_id" json:"user_id"`
	DestinationID   uuid.UUID     `db:"destination_id" json:"destination_id"`
	CheckInDate     time.Time     `db:"check_in_date" json:"check_in_date"`
	CheckOutDate    time.Time     `db:"check_out_date" json:"check_out_date"`
	NumberOfGuests  int           `db:"number_of_guests" json:"number_of_guests"`
	TotalAmount     float64       `db:"total_amount" json:"total_amount"`
	Status          BookingStatus `db:"status" json:"status"`
	Reference       string        `db:"booking_reference" json:"booking_reference"`
	SpecialRequests *string       `db:"special_requests" json:"special_requests,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`

	// Joined for email rendering; not part of the booking row itself.
	DestinationName *string `db:"destination_name" json:"-"`
}

type BookingUpdate struct {
	CheckInDate     *time.Time
	CheckOutDate    *time.Time
	NumberOfGuests  *int
	TotalAmount     *float64
	Status          *BookingStatus
	SpecialRequests *string
}
