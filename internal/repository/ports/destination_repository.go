package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
)

type DestinationRepository interface {
	Create(ctx context.Context, dest *domain.Destination) (*domain.Destination, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error)
	List(ctx context.Context, limit, offset int) ([]domain.Destination, error)
	Update(ctx context.Context, id uuid.UUID, update domain.DestinationUpdate) (*domain.Destination, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
