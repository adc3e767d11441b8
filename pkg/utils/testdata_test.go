package utils

// scenarioResponse is a single-fare search result for VLC -> STN
const scenarioResponse = `{"total": 1, "fares": [{"outbound": {"flightNumber": "FR642", "departureDate": "2026-03-25T06:00:00", "departureAirport": {"iataCode": "VLC", "countryName": "Spain", "city": {"name": "Valencia"}}, "arrivalAirport": {"iataCode": "STN", "countryName": "UK", "city": {"name": "London"}}, "price": {"value": 45.99, "currencyCode": "EUR", "currencySymbol": "€"}}}]}`
