package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/infrastructure/persistence"
	"fare-tracker-service/pkg/utils"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := persistence.OpenGorm("sqlite", filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { persistence.CloseGorm(db) })
	return db
}

func strPtr(s string) *string {
	return &s
}

// observation builds a stored-shape observation for a flight departing at departure
func observation(flightNumber, departure, origin, destination, price string, queryDate time.Time) *entity.FareObservation {
	dep, err := utils.ParseDepartureTime(departure)
	if err != nil {
		panic(err)
	}
	id := utils.BuildFlightID(flightNumber, &departure, origin, destination)
	days := utils.DaysBetween(queryDate, dep)
	dow := utils.DayOfWeek(dep)

	obs := &entity.FareObservation{
		FlightID: id,
		Flight: entity.Flight{
			ID:            id,
			FlightNumber:  flightNumber,
			Departure:     entity.AirportInfo{IATACode: origin, CityName: strPtr("Valencia"), CountryName: strPtr("Spain")},
			Arrival:       entity.AirportInfo{IATACode: destination, CityName: strPtr("London")},
			DepartureDate: strPtr(departure),
			Calendar: &entity.DepartureCalendar{
				Date:       utils.CivilDate(dep),
				DayOfWeek:  dow,
				IsWeekend:  utils.IsWeekend(dow),
				WeekOfYear: 13,
				Month:      int(dep.Month()),
				Year:       dep.Year(),
				TimeSlot:   utils.TimeSlot(dep.Hour()),
			},
		},
		Price: entity.PriceObservation{
			FlightID:            id,
			QueryDate:           queryDate,
			CurrencyCode:        strPtr("EUR"),
			CurrencySymbol:      strPtr("€"),
			DaysBeforeDeparture: &days,
			QueryDOW:            utils.DayOfWeek(queryDate),
			QueryTimeSlot:       utils.TimeSlot(queryDate.Hour()),
		},
	}
	if price != "" {
		obs.Price.Price = decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true}
	}
	return obs
}
