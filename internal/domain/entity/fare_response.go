package entity

import (
	"github.com/shopspring/decimal"
)

// FareResponse is the decoded body of a one-way fare search.
// Every nested object is optional; the parser decides what is mandatory.
type FareResponse struct {
	Total int         `json:"total"`
	Fares []FareEntry `json:"fares"`

	// Raw holds the body exactly as received, for archiving
	Raw []byte `json:"-"`
}

type FareEntry struct {
	Outbound *FareLeg `json:"outbound"`
}

type FareLeg struct {
	FlightNumber     *string      `json:"flightNumber"`
	DepartureDate    *string      `json:"departureDate"`
	ArrivalDate      *string      `json:"arrivalDate"`
	DepartureAirport *FareAirport `json:"departureAirport"`
	ArrivalAirport   *FareAirport `json:"arrivalAirport"`
	Price            *FarePrice   `json:"price"`
}

type FareAirport struct {
	CountryName *string   `json:"countryName"`
	IATACode    *string   `json:"iataCode"`
	Name        *string   `json:"name"`
	SeoName     *string   `json:"seoName"`
	City        *FareCity `json:"city"`
}

type FareCity struct {
	Name    *string `json:"name"`
	Code    *string `json:"code"`
	MacCode *string `json:"macCode"`
}

type FarePrice struct {
	Value          *decimal.Decimal `json:"value"`
	CurrencyCode   *string          `json:"currencyCode"`
	CurrencySymbol *string          `json:"currencySymbol"`
}
