package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/repository/ports"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepo(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount, currency, payment_method, status, chapa_transaction_id, chapa_reference, chapa_payment_url, verification_response, payment_date, created_at, updated_at`

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	const query = `
		INSERT INTO payment (booking_id, amount, currency, payment_method, status, chapa_transaction_id, chapa_reference, chapa_payment_url)
		VALUES (:booking_id, :amount, :currency, :payment_method, :status, :chapa_transaction_id, :chapa_reference, :chapa_payment_url)
		RETURNING ` + paymentColumns

	args := map[string]any{
		"booking_id":           payment.BookingID,
		"amount":               payment.Amount,
		"currency":             payment.Currency,
		"payment_method":       payment.Method,
		"status":               payment.Status,
		"chapa_transaction_id": payment.TransactionID,
		"chapa_reference":      payment.Reference,
		"chapa_payment_url":    payment.CheckoutURL,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Payment
		if err := rows.StructScan(&stored); err != nil {
			return nil, err
		}
		return &stored, nil
	}
	return nil, sql.ErrNoRows
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payment WHERE id = $1`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payment WHERE booking_id = $1`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, bookingID); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payment WHERE chapa_transaction_id = $1`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, transactionID); err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateStatus persists a status transition. The gateway payload replaces the
// stored verification_response only when non-nil, and payment_date is stamped
// exactly once, on the transition into completed.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gatewayResponse json.RawMessage) (*domain.Payment, error) {
	const query = `
		UPDATE payment
		SET status = $2,
		    verification_response = COALESCE($3, verification_response),
		    payment_date = CASE WHEN $2 = 'completed' THEN COALESCE(payment_date, NOW()) ELSE payment_date END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + paymentColumns

	var response any
	if gatewayResponse != nil {
		response = []byte(gatewayResponse)
	}

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id, status, response); err != nil {
		return nil, err
	}
	return &payment, nil
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)
