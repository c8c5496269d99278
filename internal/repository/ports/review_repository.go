package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Review, error)
	Update(ctx context.Context, id uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
