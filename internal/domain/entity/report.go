package entity

import "github.com/shopspring/decimal"

const (
	// TimeSlots is the number of four-hour departure/query windows in a day
	TimeSlots = 6
	// DaysOfWeek is the number of weekday columns in a pricing matrix
	DaysOfWeek = 7
)

// Statistics are the global aggregates over all observations
type Statistics struct {
	CheapestPrice  decimal.Decimal `json:"cheapestPrice"`
	ExpensivePrice decimal.Decimal `json:"expensivePrice"`
	AveragePrice   decimal.Decimal `json:"averagePrice"`
	TotalFlights   int64           `json:"totalFlights"`
	TotalPrices    int64           `json:"totalPrices"`
}

// FlightSummary is a flight with the average over all its observations
type FlightSummary struct {
	ID                string          `json:"id"`
	FlightNumber      string          `json:"flightNumber"`
	DepartureCityName *string         `json:"departureCityName"`
	ArrivalCityName   *string         `json:"arrivalCityName"`
	DepartureDate     *string         `json:"departureDate"`
	AveragePrice      decimal.Decimal `json:"averagePrice"`
	PriceQueries      int64           `json:"priceQueries"`
}

// FlightRow is a stored flight as the reporting layer reads it
type FlightRow struct {
	ID                string  `json:"id"`
	FlightNumber      string  `json:"flightNumber"`
	DepartureIATA     string  `json:"departureIataCode"`
	DepartureCityName *string `json:"departureCityName"`
	ArrivalIATA       string  `json:"arrivalIataCode"`
	ArrivalCityName   *string `json:"arrivalCityName"`
	DepartureDate     *string `json:"departureDate"`
	ArrivalDate       *string `json:"arrivalDate"`
	DepartureTimeSlot *int    `json:"departureTimeSlot"`
	DepartureDOW      *int    `json:"departureDow"`
	IsWeekend         *int    `json:"isWeekend"`
	IsHoliday         *int    `json:"isHoliday"`
}

// PriceRow is a stored price observation as the reporting layer reads it
type PriceRow struct {
	FlightID            string              `json:"flightId"`
	QueryDate           string              `json:"queryDate"`
	Price               decimal.NullDecimal `json:"price"`
	CurrencyCode        *string             `json:"currencyCode"`
	CurrencySymbol      *string             `json:"currencySymbol"`
	DaysBeforeDeparture *int                `json:"daysBeforeDeparture"`
	QueryDOW            *int                `json:"queryDow"`
	QueryTimeSlot       *int                `json:"queryTimeSlot"`
}

// LastEntries are the most recent flights and prices
type LastEntries struct {
	Flights []FlightRow `json:"flights"`
	Prices  []PriceRow  `json:"prices"`
}

// DaysBeforeAverage is the average price for one days-before-departure value
type DaysBeforeAverage struct {
	DaysBeforeDeparture int             `json:"daysBeforeDeparture"`
	AveragePrice        decimal.Decimal `json:"averagePrice"`
	Samples             int64           `json:"samples"`
}

// DevelopmentPoint is the average price per days-before-departure and departure weekday
type DevelopmentPoint struct {
	DaysBeforeDeparture int             `json:"daysBeforeDeparture"`
	DayOfWeek           int             `json:"dayOfWeek"`
	AveragePrice        decimal.Decimal `json:"averagePrice"`
}

// PriceMatrix is a time slot x weekday grid of average prices. Nil cells have no data.
type PriceMatrix [TimeSlots][DaysOfWeek]*decimal.Decimal

// PricingMatrices groups prices by when they were queried and when the flight departs
type PricingMatrices struct {
	Query     PriceMatrix `json:"query"`
	Departure PriceMatrix `json:"departure"`
}
