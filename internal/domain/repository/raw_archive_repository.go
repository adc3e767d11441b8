package repository

import (
	"context"
	"time"

	"fare-tracker-service/internal/domain/entity"
)

// RawArchiveRepository defines the interface for the raw response archive
type RawArchiveRepository interface {
	EnsureSchema(ctx context.Context) error
	Archive(ctx context.Context, raw []byte, origin, destination, departureDate string, capturedAt time.Time) (*entity.RawResponse, error)
	List(ctx context.Context, filter entity.RawResponseFilter) ([]*entity.RawResponse, error)
}
