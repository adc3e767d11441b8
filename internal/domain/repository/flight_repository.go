package repository

import (
	"context"

	"fare-tracker-service/internal/domain/entity"
)

// FlightRepository defines the interface for flight and price persistence
type FlightRepository interface {
	EnsureSchema(ctx context.Context) error
	UpsertFlight(ctx context.Context, flight *entity.Flight) error
	UpsertPrice(ctx context.Context, price *entity.PriceObservation) error
	SaveBatch(ctx context.Context, batch *entity.Batch) error
}
