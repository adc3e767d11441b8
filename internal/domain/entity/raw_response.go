package entity

import "time"

// RawResponse is an archived fare API body
type RawResponse struct {
	ID            string
	QueryDate     time.Time
	Origin        string
	Destination   string
	DepartureDate string
	ResponseGzip  []byte
	ResponseHash  string
}

// RawResponseFilter narrows archive listings. Zero values match everything.
type RawResponseFilter struct {
	Origin      string
	Destination string
	Since       *time.Time
	Until       *time.Time
	Limit       int
}
