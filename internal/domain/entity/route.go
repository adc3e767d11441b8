package entity

import (
	"fmt"
	"strings"
)

// Route is one origin/destination pair the tracker polls
type Route struct {
	Origin      string `json:"origin" koanf:"origin"`
	Destination string `json:"destination" koanf:"destination"`
}

// ParseRoute parses "VLC-BER" into a Route. Codes are upper-cased.
func ParseRoute(raw string) (Route, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return Route{}, fmt.Errorf("invalid route %q: expected ORIGIN-DESTINATION", raw)
	}

	origin := strings.ToUpper(strings.TrimSpace(parts[0]))
	destination := strings.ToUpper(strings.TrimSpace(parts[1]))
	if origin == "" || destination == "" {
		return Route{}, fmt.Errorf("invalid route %q: empty airport code", raw)
	}
	if origin == destination {
		return Route{}, fmt.Errorf("invalid route %q: origin equals destination", raw)
	}

	return Route{Origin: origin, Destination: destination}, nil
}

func (r Route) String() string {
	return r.Origin + "-" + r.Destination
}
