package repository

import (
	"context"
	"fmt"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/domain/repository"
	"fare-tracker-service/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFlightRepository implements the FlightRepository interface
type GormFlightRepository struct {
	db *gorm.DB
}

// NewGormFlightRepository creates a new GORM flight repository
func NewGormFlightRepository(db *gorm.DB) repository.FlightRepository {
	return &GormFlightRepository{
		db: db,
	}
}

// Flights GORM model for database mapping
type Flights struct {
	ID           string  `gorm:"column:id;primaryKey"`
	FlightNumber *string `gorm:"column:flight_number"`

	DepartureCountryName *string `gorm:"column:departureAirport_countryName"`
	DepartureCityName    *string `gorm:"column:departureAirport_cityName"`
	DepartureIATACode    *string `gorm:"column:departureAirport_iataCode"`
	DepartureMacCode     *string `gorm:"column:departureAirport_macCode"`
	DepartureSeoName     *string `gorm:"column:departureAirport_seoName"`

	ArrivalCountryName *string `gorm:"column:arrivalAirport_countryName"`
	ArrivalCityName    *string `gorm:"column:arrivalAirport_cityName"`
	ArrivalIATACode    *string `gorm:"column:arrivalAirport_iataCode"`
	ArrivalMacCode     *string `gorm:"column:arrivalAirport_macCode"`
	ArrivalSeoName     *string `gorm:"column:arrivalAirport_seoName"`

	DepartureDate     *string `gorm:"column:departureDate"`
	DepartureTimeSlot *int    `gorm:"column:departure_time_slot"`
	ArrivalDate       *string `gorm:"column:arrivalDate"`

	DepartureDOW *int `gorm:"column:departure_dow"`
	IsWeekend    *int `gorm:"column:is_weekend"`
	WeekOfYear   *int `gorm:"column:week_of_year"`
	Month        *int `gorm:"column:month"`
	Year         *int `gorm:"column:year"`
	IsHoliday    *int `gorm:"column:is_holiday"`
}

// TableName overrides the default table name
func (Flights) TableName() string {
	return "flights"
}

// Prices GORM model for database mapping
type Prices struct {
	FlightID            string   `gorm:"column:flight_id;primaryKey"`
	QueryDate           string   `gorm:"column:query_date;primaryKey"`
	Price               *float64 `gorm:"column:price"`
	CurrencyCode        *string  `gorm:"column:currencyCode"`
	CurrencySymbol      *string  `gorm:"column:currencySymbol"`
	DaysBeforeDeparture *int     `gorm:"column:days_before_departure"`
	QueryDOW            *int     `gorm:"column:query_dow"`
	QueryTimeSlot       *int     `gorm:"column:query_time_slot"`
}

// TableName overrides the default table name
func (Prices) TableName() string {
	return "prices"
}

// EnsureSchema creates the flights and prices tables if they are missing
func (r *GormFlightRepository) EnsureSchema(ctx context.Context) error {
	statements := renderSchema(r.db.Dialector.Name(), flightsTable, pricesTable)
	for _, stmt := range statements {
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create flight schema: %w", err)
		}
	}
	return nil
}

// UpsertFlight inserts the flight unless its id already exists
func (r *GormFlightRepository) UpsertFlight(ctx context.Context, flight *entity.Flight) error {
	return insertFlight(r.db.WithContext(ctx), flight)
}

// UpsertPrice inserts the observation unless (flight_id, query_date) already exists
func (r *GormFlightRepository) UpsertPrice(ctx context.Context, price *entity.PriceObservation) error {
	return insertPrice(r.db.WithContext(ctx), price)
}

// SaveBatch writes every flight and price of the batch in one transaction
func (r *GormFlightRepository) SaveBatch(ctx context.Context, batch *entity.Batch) error {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, obs := range batch.Items() {
			if err := insertFlight(tx, &obs.Flight); err != nil {
				return err
			}
			if err := insertPrice(tx, &obs.Price); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertFlight(db *gorm.DB, flight *entity.Flight) error {
	model := toFlightModel(flight)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert flight %s: %w", flight.ID, err)
	}
	return nil
}

func insertPrice(db *gorm.DB, price *entity.PriceObservation) error {
	model := toPriceModel(price)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert price for %s: %w", price.FlightID, err)
	}
	return nil
}

// Convert domain entity to GORM model
func toFlightModel(f *entity.Flight) Flights {
	model := Flights{
		ID:           f.ID,
		FlightNumber: &f.FlightNumber,

		DepartureCountryName: f.Departure.CountryName,
		DepartureCityName:    f.Departure.CityName,
		DepartureIATACode:    &f.Departure.IATACode,
		DepartureMacCode:     f.Departure.MacCode,
		DepartureSeoName:     f.Departure.SeoName,

		ArrivalCountryName: f.Arrival.CountryName,
		ArrivalCityName:    f.Arrival.CityName,
		ArrivalIATACode:    &f.Arrival.IATACode,
		ArrivalMacCode:     f.Arrival.MacCode,
		ArrivalSeoName:     f.Arrival.SeoName,

		DepartureDate: f.DepartureDate,
		ArrivalDate:   f.ArrivalDate,
	}

	if c := f.Calendar; c != nil {
		model.DepartureTimeSlot = intPtr(c.TimeSlot)
		model.DepartureDOW = intPtr(c.DayOfWeek)
		model.IsWeekend = intPtr(boolToInt(c.IsWeekend))
		model.WeekOfYear = intPtr(c.WeekOfYear)
		model.Month = intPtr(c.Month)
		model.Year = intPtr(c.Year)
		model.IsHoliday = intPtr(boolToInt(c.IsHoliday))
	}

	return model
}

func toPriceModel(p *entity.PriceObservation) Prices {
	model := Prices{
		FlightID:            p.FlightID,
		QueryDate:           p.QueryDate.Format(utils.QueryDateLayout),
		CurrencyCode:        p.CurrencyCode,
		CurrencySymbol:      p.CurrencySymbol,
		DaysBeforeDeparture: p.DaysBeforeDeparture,
		QueryDOW:            intPtr(p.QueryDOW),
		QueryTimeSlot:       intPtr(p.QueryTimeSlot),
	}
	if p.Price.Valid {
		v := p.Price.Decimal.InexactFloat64()
		model.Price = &v
	}
	return model
}

func intPtr(v int) *int {
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
