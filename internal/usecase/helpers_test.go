package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/infrastructure/persistence"
)

// scenarioBody is a single-fare search result for VLC -> STN departing 2026-03-25 06:00
const scenarioBody = `{"total": 1, "fares": [{"outbound": {"flightNumber": "FR642", "departureDate": "2026-03-25T06:00:00", "departureAirport": {"iataCode": "VLC", "countryName": "Spain", "city": {"name": "Valencia"}}, "arrivalAirport": {"iataCode": "STN", "countryName": "UK", "city": {"name": "London"}}, "price": {"value": 45.99, "currencyCode": "EUR", "currencySymbol": "€"}}}]}`

const emptyBody = `{"total": 0, "fares": []}`

type fakeFareSource struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func newFakeFareSource() *fakeFareSource {
	return &fakeFareSource{
		bodies: make(map[string]string),
		errs:   make(map[string]error),
	}
}

func (f *fakeFareSource) key(origin, destination, date string) string {
	return fmt.Sprintf("%s-%s %s", origin, destination, date)
}

func (f *fakeFareSource) SearchOneWay(ctx context.Context, origin, destination, date string) (*entity.FareResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := f.key(origin, destination, date)
	f.calls = append(f.calls, k)

	if err, ok := f.errs[k]; ok {
		return nil, err
	}
	body, ok := f.bodies[k]
	if !ok {
		body = emptyBody
	}
	return decodeBody(body), nil
}

func decodeBody(body string) *entity.FareResponse {
	var resp entity.FareResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		panic(err)
	}
	resp.Raw = []byte(body)
	return &resp
}

type recordingNotifier struct {
	mu      sync.Mutex
	reports []*entity.RunReport
	err     error
}

func (n *recordingNotifier) Notify(ctx context.Context, report *entity.RunReport) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports = append(n.reports, report)
	return n.err
}

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start.Add(-step)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(step)
		return current
	}
}

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := persistence.OpenGorm("sqlite", filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { persistence.CloseGorm(db) })
	return db
}
