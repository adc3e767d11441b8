package entity

import "errors"

var (
	// ErrNetwork is returned when the fare API cannot be reached or answers with a non-2xx status
	ErrNetwork = errors.New("fare api network error")

	// ErrMalformedResponse is returned when the fare API body is not valid JSON
	ErrMalformedResponse = errors.New("malformed fare api response")

	// ErrParse is returned when a fare cannot be normalized
	ErrParse = errors.New("fare parse error")

	// ErrDuplicateArchive is returned when a raw response hash is already archived
	ErrDuplicateArchive = errors.New("raw response already archived")
)
