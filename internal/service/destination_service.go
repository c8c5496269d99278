package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/repository/ports"
)

var (
	ErrDestinationNotFound   = errors.New("destination not found")
	ErrDestinationValidation = errors.New("destination validation failed")
)

type DestinationImageUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type DestinationServiceConfig struct {
	Bucket        string
	MaxImageBytes int64
	PublicBaseURL string
}

type DestinationService struct {
	destinations ports.DestinationRepository
	storage      ports.ObjectStorage

	bucket        string
	publicBase    string
	maxImageBytes int64
	now           func() time.Time
}

var allowedImageMIMEs = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func NewDestinationService(destRepo ports.DestinationRepository, storage ports.ObjectStorage, cfg DestinationServiceConfig) *DestinationService {
	maxBytes := cfg.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &DestinationService{
		destinations:  destRepo,
		storage:       storage,
		bucket:        strings.TrimSpace(cfg.Bucket),
		publicBase:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxImageBytes: maxBytes,
		now:           time.Now,
	}
}

func (s *DestinationService) Create(ctx context.Context, dest *domain.Destination) (*domain.Destination, error) {
	if err := validateDestination(dest.Name, dest.Description, dest.Location, dest.PricePerNight); err != nil {
		return nil, err
	}
	return s.destinations.Create(ctx, dest)
}

func (s *DestinationService) Get(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	dest, err := s.destinations.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return dest, nil
}

func (s *DestinationService) List(ctx context.Context, limit, offset int) ([]domain.Destination, error) {
	limit, offset = normalizePage(limit, offset)
	return s.destinations.List(ctx, limit, offset)
}

func (s *DestinationService) Update(ctx context.Context, id uuid.UUID, update domain.DestinationUpdate) (*domain.Destination, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrDestinationValidation)
	}
	if update.PricePerNight != nil && *update.PricePerNight <= 0 {
		return nil, fmt.Errorf("%w: price_per_night must be positive", ErrDestinationValidation)
	}

	dest, err := s.destinations.Update(ctx, id, update)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return dest, nil
}

func (s *DestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.destinations.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrDestinationNotFound
		}
		return err
	}
	return nil
}

// UploadImage stores a destination hero image in object storage and persists
// the resulting public URL on the destination row.
func (s *DestinationService) UploadImage(ctx context.Context, id uuid.UUID, upload DestinationImageUpload) (*domain.Destination, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.storage == nil || s.bucket == "" {
		return nil, errors.New("image storage not configured")
	}
	if upload.Size <= 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrDestinationValidation)
	}
	if upload.Size > s.maxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds size limit (%d bytes)", ErrDestinationValidation, s.maxImageBytes)
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	ext, ok := allowedImageMIMEs[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %s", ErrDestinationValidation, upload.ContentType)
	}
	if nameExt := strings.ToLower(filepath.Ext(upload.FileName)); nameExt != "" {
		ext = nameExt
	}

	objectKey := fmt.Sprintf("destinations/%s/%s%s", id.String(), s.now().UTC().Format("20060102T150405Z0700"), ext)
	url, err := s.storage.Upload(ctx, s.bucket, objectKey, contentType, upload.Reader, upload.Size)
	if err != nil {
		return nil, err
	}
	if s.publicBase != "" {
		url = s.publicBase + "/" + strings.TrimLeft(objectKey, "/")
	}

	return s.Update(ctx, id, domain.DestinationUpdate{ImageURL: &url})
}

func validateDestination(name, description, location string, pricePerNight float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name required", ErrDestinationValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description required", ErrDestinationValidation)
	}
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: location required", ErrDestinationValidation)
	}
	if pricePerNight <= 0 {
		return fmt.Errorf("%w: price_per_night must be positive", ErrDestinationValidation)
	}
	return nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
