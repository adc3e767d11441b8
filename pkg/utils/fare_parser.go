package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/pkg/logger"
)

var zoneSuffix = regexp.MustCompile(`(?:Z|[+-]\d{2}:?\d{2})$`)

var departureLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// HasFares reports whether the response declares at least one result.
// A missing total decodes as zero, so malformed bodies count as empty.
func HasFares(resp *entity.FareResponse) bool {
	return resp != nil && resp.Total > 0
}

// FareParser normalizes fare responses into flight and price records
type FareParser struct {
	holidays *HolidayCalendar
	logger   logger.Logger
}

// NewFareParser creates a new fare parser
func NewFareParser(holidays *HolidayCalendar, logger logger.Logger) *FareParser {
	return &FareParser{
		holidays: holidays,
		logger:   logger,
	}
}

// Parse normalizes the first fare of resp. observedAt is the instant the
// response was fetched; every query-side field derives from it.
//
// It returns nil, nil when the response carries no fare entries. Only the
// first fare is used; any others are discarded. Flight number and both IATA
// codes are mandatory, everything else may be absent.
func (p *FareParser) Parse(resp *entity.FareResponse, observedAt time.Time) (*entity.FareObservation, error) {
	if resp == nil || len(resp.Fares) == 0 {
		return nil, nil
	}

	if len(resp.Fares) > 1 {
		p.logger.Debug("Discarding extra fares", "fares", len(resp.Fares))
	}

	leg := resp.Fares[0].Outbound
	if leg == nil {
		return nil, fmt.Errorf("%w: fare has no outbound leg", entity.ErrParse)
	}

	depAirport := airportOrEmpty(leg.DepartureAirport)
	arrAirport := airportOrEmpty(leg.ArrivalAirport)

	flightNumber := deref(leg.FlightNumber)
	originIATA := deref(depAirport.IATACode)
	destinationIATA := deref(arrAirport.IATACode)
	if flightNumber == "" || originIATA == "" || destinationIATA == "" {
		return nil, fmt.Errorf("%w: missing flight number or airport codes (flight=%q origin=%q destination=%q)",
			entity.ErrParse, flightNumber, originIATA, destinationIATA)
	}

	flightID := BuildFlightID(flightNumber, leg.DepartureDate, originIATA, destinationIATA)

	flight := entity.Flight{
		ID:            flightID,
		FlightNumber:  flightNumber,
		Departure:     airportInfo(depAirport),
		Arrival:       airportInfo(arrAirport),
		DepartureDate: leg.DepartureDate,
		ArrivalDate:   leg.ArrivalDate,
	}

	price := entity.PriceObservation{
		FlightID:      flightID,
		QueryDate:     observedAt,
		QueryDOW:      DayOfWeek(observedAt),
		QueryTimeSlot: TimeSlot(observedAt.Hour()),
	}
	if leg.Price != nil {
		if leg.Price.Value != nil {
			price.Price = decimal.NullDecimal{Decimal: *leg.Price.Value, Valid: true}
		}
		price.CurrencyCode = leg.Price.CurrencyCode
		price.CurrencySymbol = leg.Price.CurrencySymbol
	}

	if leg.DepartureDate != nil && *leg.DepartureDate != "" {
		departure, err := ParseDepartureTime(*leg.DepartureDate)
		if err != nil {
			return nil, err
		}
		flight.Calendar = p.calendar(departure)

		days := DaysBetween(observedAt, departure)
		price.DaysBeforeDeparture = &days
	}

	return &entity.FareObservation{
		FlightID: flightID,
		Flight:   flight,
		Price:    price,
	}, nil
}

func (p *FareParser) calendar(departure time.Time) *entity.DepartureCalendar {
	_, week := departure.ISOWeek()
	dow := DayOfWeek(departure)

	return &entity.DepartureCalendar{
		Date:       CivilDate(departure),
		DayOfWeek:  dow,
		IsWeekend:  IsWeekend(dow),
		WeekOfYear: week,
		Month:      int(departure.Month()),
		Year:       departure.Year(),
		IsHoliday:  p.holidays.IsHoliday(departure),
		TimeSlot:   TimeSlot(departure.Hour()),
	}
}

// BuildFlightID derives the human readable flight identity, e.g.
// FR642_20260325T060000_VLC_STN.
func BuildFlightID(flightNumber string, departureDate *string, origin, destination string) string {
	departure := UnknownDeparture
	if departureDate != nil && *departureDate != "" {
		departure = strings.NewReplacer(":", "", "-", "").Replace(*departureDate)
	}
	return fmt.Sprintf("%s_%s_%s_%s", flightNumber, departure, origin, destination)
}

// ParseDepartureTime parses an ISO 8601 timestamp as a naive local time,
// dropping any trailing zone designator.
func ParseDepartureTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if i := strings.Index(trimmed, "T"); i >= 0 {
		trimmed = trimmed[:i] + zoneSuffix.ReplaceAllString(trimmed[i:], "")
	}

	for _, layout := range departureLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable departure timestamp %q", entity.ErrParse, value)
}

func airportOrEmpty(a *entity.FareAirport) *entity.FareAirport {
	if a == nil {
		return &entity.FareAirport{}
	}
	return a
}

func airportInfo(a *entity.FareAirport) entity.AirportInfo {
	info := entity.AirportInfo{
		IATACode:    deref(a.IATACode),
		CountryName: a.CountryName,
		SeoName:     a.SeoName,
	}
	if a.City != nil {
		info.CityName = a.City.Name
		info.MacCode = a.City.MacCode
	}
	return info
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
