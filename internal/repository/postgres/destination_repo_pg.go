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

type DestinationRepository struct {
	db *sqlx.DB
}

func NewDestinationRepo(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

func (r *DestinationRepository) Create(ctx context.Context, dest *domain.Destination) (*domain.Destination, error) {
	const query = `
		INSERT INTO destination (name, description, location, price_per_night, image_url)
		VALUES (:name, :description, :location, :price_per_night, :image_url)
		RETURNING id, name, description, location, price_per_night, image_url, created_at, updated_at
	`
	args := map[string]any{
		"name":            dest.Name,
		"description":     dest.Description,
		"location":        dest.Location,
		"price_per_night": dest.PricePerNight,
		"image_url":       dest.ImageURL,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Destination
		if err := rows.StructScan(&stored); err != nil {
			return nil, err
		}
		return &stored, nil
	}
	return nil, sql.ErrNoRows
}

func (r *DestinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	const query = `
		SELECT id, name, description, location, price_per_night, image_url, created_at, updated_at
		FROM destination
		WHERE id = $1
	`
	var dest domain.Destination
	if err := r.db.GetContext(ctx, &dest, query, id); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *DestinationRepository) List(ctx context.Context, limit, offset int) ([]domain.Destination, error) {
	const query = `
		SELECT id, name, description, location, price_per_night, image_url, created_at, updated_at
		FROM destination
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Destination
	for rows.Next() {
		var dest domain.Destination
		if err := rows.StructScan(&dest); err != nil {
			return nil, err
		}
		items = append(items, dest)
	}
	return items, rows.Err()
}

func (r *DestinationRepository) Update(ctx context.Context, id uuid.UUID, update domain.DestinationUpdate) (*domain.Destination, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	idx := 2

	if update.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, *update.Name)
		idx++
	}
	if update.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", idx))
		args = append(args, *update.Description)
		idx++
	}
	if update.Location != nil {
		sets = append(sets, fmt.Sprintf("location = $%d", idx))
		args = append(args, *update.Location)
		idx++
	}
	if update.PricePerNight != nil {
		sets = append(sets, fmt.Sprintf("price_per_night = $%d", idx))
		args = append(args, *update.PricePerNight)
		idx++
	}
	if update.ImageURL != nil {
		sets = append(sets, fmt.Sprintf("image_url = $%d", idx))
		args = append(args, *update.ImageURL)
		idx++
	}

	query := fmt.Sprintf(`
		UPDATE destination
		SET %s
		WHERE id = $1
		RETURNING id, name, description, location, price_per_night, image_url, created_at, updated_at
	`, strings.Join(sets, ", "))

	var dest domain.Destination
	if err := r.db.GetContext(ctx, &dest, query, args...); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *DestinationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM destination WHERE id = $1`
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

var _ ports.DestinationRepository = (*DestinationRepository)(nil)
