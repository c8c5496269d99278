package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status can no longer change through
// verification or webhook delivery.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodBank        PaymentMethod = "bank"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
	PaymentMethodCrypto      PaymentMethod = "crypto"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBank, PaymentMethodMobileMoney, PaymentMethodCrypto:
		return true
	}
	return false
}

type Payment struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	BookingID            uuid.UUID       `db:"booking_id" json:"booking_id"`
	Amount               float64         `db:"amount" json:"amount"`
	Currency             string          `db:"currency" json:"currency"`
	Method               PaymentMethod   `db:"payment_method" json:"payment_method"`
	Status               PaymentStatus   `db:"status" json:"status"`
	TransactionID        *string         `db:"chapa_transaction_id" json:"transaction_id,omitempty"`
	Reference            *string         `db:"chapa_reference" json:"reference,omitempty"`
	CheckoutURL          *string         `db:"chapa_payment_url" json:"payment_url,omitempty"`
	VerificationResponse json.RawMessage `db:"verification_response" json:"-"`
	PaymentDate          *time.Time      `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}
