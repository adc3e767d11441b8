package repository

import "strings"

// Column names are the contract the reporting layer reads; the mixed-case
// ones are quoted so postgres keeps their case.
const flightsTable = `
CREATE TABLE IF NOT EXISTS flights (
	id TEXT PRIMARY KEY,
	flight_number TEXT,

	"departureAirport_countryName" TEXT,
	"departureAirport_cityName" TEXT,
	"departureAirport_iataCode" TEXT,
	"departureAirport_macCode" TEXT,
	"departureAirport_seoName" TEXT,

	"arrivalAirport_countryName" TEXT,
	"arrivalAirport_cityName" TEXT,
	"arrivalAirport_iataCode" TEXT,
	"arrivalAirport_macCode" TEXT,
	"arrivalAirport_seoName" TEXT,

	"departureDate" TEXT,
	departure_time_slot INTEGER,
	"arrivalDate" TEXT,

	departure_dow INTEGER,
	is_weekend INTEGER,
	week_of_year INTEGER,
	month INTEGER,
	year INTEGER,
	is_holiday INTEGER
)`

const pricesTable = `
CREATE TABLE IF NOT EXISTS prices (
	flight_id TEXT,
	query_date TEXT,

	price {{REAL}},
	"currencyCode" TEXT,
	"currencySymbol" TEXT,
	days_before_departure INTEGER,
	query_dow INTEGER,
	query_time_slot INTEGER,

	PRIMARY KEY(flight_id, query_date),
	FOREIGN KEY(flight_id) REFERENCES flights(id)
)`

const rawResponsesTable = `
CREATE TABLE IF NOT EXISTS raw_api_responses (
	id {{SERIAL}},

	query_date TEXT NOT NULL,
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	departure_date TEXT NOT NULL,

	response_gzip {{BLOB}} NOT NULL,
	response_hash TEXT NOT NULL
)`

const rawResponsesHashIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_raw_response_hash
	ON raw_api_responses (response_hash)`

var dialectTypes = map[string]*strings.Replacer{
	"sqlite": strings.NewReplacer(
		"{{REAL}}", "REAL",
		"{{SERIAL}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{BLOB}}", "BLOB",
	),
	"postgres": strings.NewReplacer(
		"{{REAL}}", "DOUBLE PRECISION",
		"{{SERIAL}}", "BIGSERIAL PRIMARY KEY",
		"{{BLOB}}", "BYTEA",
	),
}

// renderSchema substitutes dialect specific column types. Unknown dialects
// get the sqlite types.
func renderSchema(dialect string, statements ...string) []string {
	r, ok := dialectTypes[dialect]
	if !ok {
		r = dialectTypes["sqlite"]
	}

	out := make([]string, 0, len(statements))
	for _, stmt := range statements {
		out = append(out, r.Replace(stmt))
	}
	return out
}
