package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AirportInfo describes one end of a flight. Only IATACode is mandatory.
type AirportInfo struct {
	IATACode    string
	CountryName *string
	CityName    *string
	MacCode     *string
	SeoName     *string
}

// DepartureCalendar holds the calendar features derived from the departure timestamp
type DepartureCalendar struct {
	Date       time.Time // midnight of the departure day, naive
	DayOfWeek  int       // 0 = Monday
	IsWeekend  bool
	WeekOfYear int // ISO week
	Month      int
	Year       int
	IsHoliday  bool
	TimeSlot   int // 0..5, see utils.TimeSlot
}

// Flight is a unique flight instance, created once and never updated.
// FlightNumber and both IATA codes are mandatory; Calendar is nil when the
// departure timestamp was absent.
type Flight struct {
	ID            string
	FlightNumber  string
	Departure     AirportInfo
	Arrival       AirportInfo
	DepartureDate *string // as received, e.g. 2026-03-25T06:00:00
	ArrivalDate   *string
	Calendar      *DepartureCalendar
}

// PriceObservation is one sampled price of a flight at a query instant
type PriceObservation struct {
	FlightID       string
	QueryDate      time.Time
	Price          decimal.NullDecimal
	CurrencyCode   *string
	CurrencySymbol *string

	// DaysBeforeDeparture is nil when the departure timestamp was absent
	DaysBeforeDeparture *int
	QueryDOW            int
	QueryTimeSlot       int
}

// FareObservation is the normalized output of parsing one fare response
type FareObservation struct {
	FlightID string
	Flight   Flight
	Price    PriceObservation
}
