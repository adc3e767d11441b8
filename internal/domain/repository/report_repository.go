package repository

import (
	"context"

	"fare-tracker-service/internal/domain/entity"
)

// ReportRepository defines the read-only aggregates the reporting layer consumes
type ReportRepository interface {
	Statistics(ctx context.Context) (*entity.Statistics, error)
	LastEntries(ctx context.Context, limit int) (*entity.LastEntries, error)
	FlightsWithAveragePrice(ctx context.Context) ([]entity.FlightSummary, error)
	AveragePriceByDaysBefore(ctx context.Context) ([]entity.DaysBeforeAverage, error)
	PricingMatrices(ctx context.Context) (*entity.PricingMatrices, error)
	PriceDevelopmentByDow(ctx context.Context) ([]entity.DevelopmentPoint, error)
}
