package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/repository/ports"
)

var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewValidation   = errors.New("review validation failed")
	ErrReviewAlreadyExist = errors.New("review already exists for this destination")
)

type ReviewService struct {
	reviews      ports.ReviewRepository
	destinations ports.DestinationRepository
}

func NewReviewService(reviewRepo ports.ReviewRepository, destRepo ports.DestinationRepository) *ReviewService {
	return &ReviewService{reviews: reviewRepo, destinations: destRepo}
}

func (s *ReviewService) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := validateRating(review.Rating); err != nil {
		return nil, err
	}
	review.Comment = strings.TrimSpace(review.Comment)
	if review.Comment == "" {
		return nil, fmt.Errorf("%w: comment required", ErrReviewValidation)
	}
	if review.DestinationID == uuid.Nil {
		return nil, fmt.Errorf("%w: destination_id required", ErrReviewValidation)
	}
	if _, err := s.destinations.FindByID(ctx, review.DestinationID); err != nil {
		if isNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}

	stored, err := s.reviews.Create(ctx, review)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrReviewAlreadyExist
		}
		return nil, err
	}
	return stored, nil
}

func (s *ReviewService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *ReviewService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Review, error) {
	limit, offset = normalizePage(limit, offset)
	return s.reviews.ListByUser(ctx, userID, limit, offset)
}

func (s *ReviewService) Update(ctx context.Context, id, userID uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}
	if update.Rating != nil {
		if err := validateRating(*update.Rating); err != nil {
			return nil, err
		}
	}
	if update.Comment != nil {
		trimmed := strings.TrimSpace(*update.Comment)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: comment cannot be empty", ErrReviewValidation)
		}
		update.Comment = &trimmed
	}

	review, err := s.reviews.Update(ctx, id, update)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrReviewValidation)
	}
	return nil
}
