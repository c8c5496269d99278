package domain

import (
	"time"

	"github.com/google/uuid"
)

type Destination struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Location      string    `db:"location" json:"location"`
	PricePerNight float64   `db:"price_per_night" json:"price_per_night"`
	ImageURL      *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type DestinationUpdate struct {
	Name          *string
	Description   *string
	Location      *string
	PricePerNight *float64
	ImageURL      *string
}
