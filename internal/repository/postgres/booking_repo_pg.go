package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/repository/ports"
)

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	b.id,
	b.user_id,
	b.destination_id,
	b.check_in_date,
	b.check_out_date,
	b.number_of_guests,
	b.total_amount,
	b.status,
	b.booking_reference,
	b.special_requests,
	b.created_at,
	b.updated_at,
	d.name AS destination_name
`

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	const query = `
		INSERT INTO booking (user_id, destination_id, check_in_date, check_out_date, number_of_guests, total_amount, status, booking_reference, special_requests)
		VALUES (:user_id, :destination_id, :check_in_date, :check_out_date, :number_of_guests, :total_amount, :status, :booking_reference, :special_requests)
		RETURNING id
	`
	args := map[string]any{
		"user_id":           booking.UserID,
		"destination_id":    booking.DestinationID,
		"check_in_date":     booking.CheckInDate,
		"check_out_date":    booking.CheckOutDate,
		"number_of_guests":  booking.NumberOfGuests,
		"total_amount":      booking.TotalAmount,
		"status":            booking.Status,
		"booking_reference": booking.Reference,
		"special_requests":  booking.SpecialRequests,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var id uuid.UUID
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
	} else {
		return nil, sql.ErrNoRows
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM booking b
		JOIN destination d ON d.id = b.destination_id
		WHERE b.id = $1
	`, bookingColumns)

	var booking domain.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM booking b
		JOIN destination d ON d.id = b.destination_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3
	`, bookingColumns)

	rows, err := r.db.QueryxContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.StructScan(&booking); err != nil {
			return nil, err
		}
		items = append(items, booking)
	}
	return items, rows.Err()
}

func (r *BookingRepository) Update(ctx context.Context, id uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	idx := 2

	if update.CheckInDate != nil {
		sets = append(sets, fmt.Sprintf("check_in_date = $%d", idx))
		args = append(args, *update.CheckInDate)
		idx++
	}
	if update.CheckOutDate != nil {
		sets = append(sets, fmt.Sprintf("check_out_date = $%d", idx))
		args = append(args, *update.CheckOutDate)
		idx++
	}
	if update.NumberOfGuests != nil {
		sets = append(sets, fmt.Sprintf("number_of_guests = $%d", idx))
		args = append(args, *update.NumberOfGuests)
		idx++
	}
	if update.TotalAmount != nil {
		sets = append(sets, fmt.Sprintf("total_amount = $%d", idx))
		args = append(args, *update.TotalAmount)
		idx++
	}
	if update.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", idx))
		args = append(args, *update.Status)
		idx++
	}
	if update.SpecialRequests != nil {
		sets = append(sets, fmt.Sprintf("special_requests = $%d", idx))
		args = append(args, *update.SpecialRequests)
		idx++
	}

	query := fmt.Sprintf(`
		UPDATE booking
		SET %s
		WHERE id = $1
		RETURNING id
	`, strings.Join(sets, ", "))

	var updated uuid.UUID
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, updated)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	const query = `
		UPDATE booking
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM booking WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ports.BookingRepository = (*BookingRepository)(nil)
