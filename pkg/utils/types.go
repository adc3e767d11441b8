package utils

// Constants
const (
	// QueryDateLayout formats observation instants (naive, microsecond ISO 8601)
	QueryDateLayout = "2006-01-02T15:04:05.000000"

	// DateLayout is the day format the fare API expects
	DateLayout = "2006-01-02"

	// UnknownDeparture replaces the departure part of a flight id when it is missing
	UnknownDeparture = "unknown"
)
