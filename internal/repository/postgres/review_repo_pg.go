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

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	const query = `
		INSERT INTO review (user_id, destination_id, rating, comment)
		VALUES (:user_id, :destination_id, :rating, :comment)
		RETURNING id, user_id, destination_id, rating, comment, created_at, updated_at
	`
	args := map[string]any{
		"user_id":        review.UserID,
		"destination_id": review.DestinationID,
		"rating":         review.Rating,
		"comment":        review.Comment,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Review
		if err := rows.StructScan(&stored); err != nil {
			return nil, err
		}
		return &stored, nil
	}
	return nil, sql.ErrNoRows
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	const query = `
		SELECT id, user_id, destination_id, rating, comment, created_at, updated_at
		FROM review
		WHERE id = $1
	`
	var review domain.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Review, error) {
	const query = `
		SELECT id, user_id, destination_id, rating, comment, created_at, updated_at
		FROM review
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryxContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.StructScan(&review); err != nil {
			return nil, err
		}
		items = append(items, review)
	}
	return items, rows.Err()
}

func (r *ReviewRepository) Update(ctx context.Context, id uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	idx := 2

	if update.Rating != nil {
		sets = append(sets, fmt.Sprintf("rating = $%d", idx))
		args = append(args, *update.Rating)
		idx++
	}
	if update.Comment != nil {
		sets = append(sets, fmt.Sprintf("comment = $%d", idx))
		args = append(args, *update.Comment)
		idx++
	}

	query := fmt.Sprintf(`
		UPDATE review
		SET %s
		WHERE id = $1
		RETURNING id, user_id, destination_id, rating, comment, created_at, updated_at
	`, strings.Join(sets, ", "))

	var review domain.Review
	if err := r.db.GetContext(ctx, &review, query, args...); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM review WHERE id = $1`
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

var _ ports.ReviewRepository = (*ReviewRepository)(nil)
