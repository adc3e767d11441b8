package repository

import (
	"context"

	"fare-tracker-service/internal/domain/entity"
)

// FareSource defines the interface for querying the fare search API
type FareSource interface {
	// SearchOneWay runs one query for a single departure day (YYYY-MM-DD)
	SearchOneWay(ctx context.Context, origin, destination, date string) (*entity.FareResponse, error)
}
