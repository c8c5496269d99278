package ports

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	// UpdateStatus is the only mutation path for payment status. It stores the
	// supplied gateway payload when non-nil and stamps payment_date on the
	// transition to completed.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gatewayResponse json.RawMessage) (*domain.Payment, error)
}
