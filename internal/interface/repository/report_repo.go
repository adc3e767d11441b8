package repository

import (
	"context"
	"fmt"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements ReportRepository over the flights and prices tables
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GORM report repository
func NewGormReportRepository(db *gorm.DB) repository.ReportRepository {
	return &GormReportRepository{
		db: db,
	}
}

const flightsWithAverageQuery = `
SELECT
	f.id AS id,
	f.flight_number AS flight_number,
	f."departureAirport_cityName" AS departure_city_name,
	f."arrivalAirport_cityName" AS arrival_city_name,
	f."departureDate" AS departure_date,
	AVG(p.price) AS avg_price,
	COUNT(p.flight_id) AS price_queries
FROM flights f
LEFT JOIN prices p ON p.flight_id = f.id
GROUP BY f.id, f.flight_number, f."departureAirport_cityName", f."arrivalAirport_cityName", f."departureDate"
ORDER BY f."departureDate", f.id`

const averageByDaysBeforeQuery = `
SELECT
	days_before_departure AS days_before_departure,
	AVG(price) AS avg_price,
	COUNT(*) AS samples
FROM prices
WHERE days_before_departure IS NOT NULL
GROUP BY days_before_departure
ORDER BY days_before_departure DESC`

const queryMatrixQuery = `
SELECT
	query_time_slot AS time_slot,
	query_dow AS day_of_week,
	AVG(price) AS avg_price
FROM prices
GROUP BY query_time_slot, query_dow`

const departureMatrixQuery = `
SELECT
	f.departure_time_slot AS time_slot,
	f.departure_dow AS day_of_week,
	AVG(p.price) AS avg_price
FROM flights f
JOIN prices p ON f.id = p.flight_id
GROUP BY f.departure_time_slot, f.departure_dow`

const developmentByDowQuery = `
SELECT
	p.days_before_departure AS days_before_departure,
	f.departure_dow AS day_of_week,
	AVG(p.price) AS avg_price
FROM flights f
JOIN prices p ON f.id = p.flight_id
WHERE p.days_before_departure IS NOT NULL AND f.departure_dow IS NOT NULL
GROUP BY p.days_before_departure, f.departure_dow
ORDER BY p.days_before_departure, f.departure_dow`

type priceAggregate struct {
	Cheapest  *float64 `gorm:"column:cheapest"`
	Expensive *float64 `gorm:"column:expensive"`
	Average   *float64 `gorm:"column:average"`
}

type flightAverageRow struct {
	ID                string   `gorm:"column:id"`
	FlightNumber      *string  `gorm:"column:flight_number"`
	DepartureCityName *string  `gorm:"column:departure_city_name"`
	ArrivalCityName   *string  `gorm:"column:arrival_city_name"`
	DepartureDate     *string  `gorm:"column:departure_date"`
	AvgPrice          *float64 `gorm:"column:avg_price"`
	PriceQueries      int64    `gorm:"column:price_queries"`
}

type daysBeforeRow struct {
	DaysBeforeDeparture int      `gorm:"column:days_before_departure"`
	AvgPrice            *float64 `gorm:"column:avg_price"`
	Samples             int64    `gorm:"column:samples"`
}

type matrixCellRow struct {
	TimeSlot  *int     `gorm:"column:time_slot"`
	DayOfWeek *int     `gorm:"column:day_of_week"`
	AvgPrice  *float64 `gorm:"column:avg_price"`
}

type developmentRow struct {
	DaysBeforeDeparture int      `gorm:"column:days_before_departure"`
	DayOfWeek           int      `gorm:"column:day_of_week"`
	AvgPrice            *float64 `gorm:"column:avg_price"`
}

// Statistics returns the price extremes, the rounded average and the row counts.
// Prices without a value are ignored; an empty store reports zeros.
func (r *GormReportRepository) Statistics(ctx context.Context) (*entity.Statistics, error) {
	db := r.db.WithContext(ctx)

	var agg priceAggregate
	if err := db.Raw(`SELECT MIN(price) AS cheapest, MAX(price) AS expensive, AVG(price) AS average FROM prices`).
		Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate prices: %w", err)
	}

	stats := &entity.Statistics{
		CheapestPrice:  floatOrZero(agg.Cheapest),
		ExpensivePrice: floatOrZero(agg.Expensive),
		AveragePrice:   roundedOrZero(agg.Average),
	}

	if err := db.Model(&Flights{}).Count(&stats.TotalFlights).Error; err != nil {
		return nil, fmt.Errorf("failed to count flights: %w", err)
	}
	if err := db.Model(&Prices{}).Count(&stats.TotalPrices).Error; err != nil {
		return nil, fmt.Errorf("failed to count prices: %w", err)
	}

	return stats, nil
}

// LastEntries returns up to limit flights by latest departure and prices by latest query
func (r *GormReportRepository) LastEntries(ctx context.Context, limit int) (*entity.LastEntries, error) {
	if limit <= 0 {
		limit = 15
	}
	db := r.db.WithContext(ctx)

	var flights []Flights
	if err := db.Order(`"departureDate" DESC`).Limit(limit).Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch last flights: %w", err)
	}

	var prices []Prices
	if err := db.Order("query_date DESC").Limit(limit).Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch last prices: %w", err)
	}

	out := &entity.LastEntries{
		Flights: make([]entity.FlightRow, 0, len(flights)),
		Prices:  make([]entity.PriceRow, 0, len(prices)),
	}
	for _, f := range flights {
		out.Flights = append(out.Flights, toFlightRow(f))
	}
	for _, p := range prices {
		out.Prices = append(out.Prices, toPriceRow(p))
	}
	return out, nil
}

// FlightsWithAveragePrice lists every flight with the rounded average of its observations
func (r *GormReportRepository) FlightsWithAveragePrice(ctx context.Context) ([]entity.FlightSummary, error) {
	var rows []flightAverageRow
	if err := r.db.WithContext(ctx).Raw(flightsWithAverageQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch flight averages: %w", err)
	}

	out := make([]entity.FlightSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.FlightSummary{
			ID:                row.ID,
			FlightNumber:      stringOrEmpty(row.FlightNumber),
			DepartureCityName: row.DepartureCityName,
			ArrivalCityName:   row.ArrivalCityName,
			DepartureDate:     row.DepartureDate,
			AveragePrice:      roundedOrZero(row.AvgPrice),
			PriceQueries:      row.PriceQueries,
		})
	}
	return out, nil
}

// AveragePriceByDaysBefore groups observations by days before departure, furthest first
func (r *GormReportRepository) AveragePriceByDaysBefore(ctx context.Context) ([]entity.DaysBeforeAverage, error) {
	var rows []daysBeforeRow
	if err := r.db.WithContext(ctx).Raw(averageByDaysBeforeQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch averages by days before departure: %w", err)
	}

	out := make([]entity.DaysBeforeAverage, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.DaysBeforeAverage{
			DaysBeforeDeparture: row.DaysBeforeDeparture,
			AveragePrice:        roundedOrZero(row.AvgPrice),
			Samples:             row.Samples,
		})
	}
	return out, nil
}

// PricingMatrices returns the time slot x weekday averages by query time and by departure time
func (r *GormReportRepository) PricingMatrices(ctx context.Context) (*entity.PricingMatrices, error) {
	db := r.db.WithContext(ctx)

	var queryCells, departureCells []matrixCellRow
	if err := db.Raw(queryMatrixQuery).Scan(&queryCells).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch query pricing matrix: %w", err)
	}
	if err := db.Raw(departureMatrixQuery).Scan(&departureCells).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch departure pricing matrix: %w", err)
	}

	return &entity.PricingMatrices{
		Query:     buildMatrix(queryCells),
		Departure: buildMatrix(departureCells),
	}, nil
}

// PriceDevelopmentByDow averages prices per days before departure and departure weekday
func (r *GormReportRepository) PriceDevelopmentByDow(ctx context.Context) ([]entity.DevelopmentPoint, error) {
	var rows []developmentRow
	if err := r.db.WithContext(ctx).Raw(developmentByDowQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch price development: %w", err)
	}

	out := make([]entity.DevelopmentPoint, 0, len(rows))
	for _, row := range rows {
		if row.AvgPrice == nil {
			continue
		}
		out = append(out, entity.DevelopmentPoint{
			DaysBeforeDeparture: row.DaysBeforeDeparture,
			DayOfWeek:           row.DayOfWeek,
			AveragePrice:        decimal.NewFromFloat(*row.AvgPrice),
		})
	}
	return out, nil
}

// buildMatrix places cells on the 6x7 grid; cells outside it or without data stay nil
func buildMatrix(cells []matrixCellRow) entity.PriceMatrix {
	var m entity.PriceMatrix
	for _, c := range cells {
		if c.TimeSlot == nil || c.DayOfWeek == nil || c.AvgPrice == nil {
			continue
		}
		slot, dow := *c.TimeSlot, *c.DayOfWeek
		if slot < 0 || slot >= entity.TimeSlots || dow < 0 || dow >= entity.DaysOfWeek {
			continue
		}
		v := decimal.NewFromFloat(*c.AvgPrice).Round(2)
		m[slot][dow] = &v
	}
	return m
}

func toFlightRow(f Flights) entity.FlightRow {
	return entity.FlightRow{
		ID:                f.ID,
		FlightNumber:      stringOrEmpty(f.FlightNumber),
		DepartureIATA:     stringOrEmpty(f.DepartureIATACode),
		DepartureCityName: f.DepartureCityName,
		ArrivalIATA:       stringOrEmpty(f.ArrivalIATACode),
		ArrivalCityName:   f.ArrivalCityName,
		DepartureDate:     f.DepartureDate,
		ArrivalDate:       f.ArrivalDate,
		DepartureTimeSlot: f.DepartureTimeSlot,
		DepartureDOW:      f.DepartureDOW,
		IsWeekend:         f.IsWeekend,
		IsHoliday:         f.IsHoliday,
	}
}

func toPriceRow(p Prices) entity.PriceRow {
	row := entity.PriceRow{
		FlightID:            p.FlightID,
		QueryDate:           p.QueryDate,
		CurrencyCode:        p.CurrencyCode,
		CurrencySymbol:      p.CurrencySymbol,
		DaysBeforeDeparture: p.DaysBeforeDeparture,
		QueryDOW:            p.QueryDOW,
		QueryTimeSlot:       p.QueryTimeSlot,
	}
	if p.Price != nil {
		row.Price = decimal.NullDecimal{Decimal: decimal.NewFromFloat(*p.Price), Valid: true}
	}
	return row
}

func floatOrZero(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

func roundedOrZero(v *float64) decimal.Decimal {
	return floatOrZero(v).Round(2)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
