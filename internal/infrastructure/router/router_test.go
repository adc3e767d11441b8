package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/interface/httpapi"
	"fare-tracker-service/pkg/logger"
)

type emptyReports struct{}

func (emptyReports) Statistics(ctx context.Context) (*entity.Statistics, error) {
	return &entity.Statistics{}, nil
}

func (emptyReports) LastEntries(ctx context.Context, limit int) (*entity.LastEntries, error) {
	return &entity.LastEntries{}, nil
}

func (emptyReports) FlightsWithAveragePrice(ctx context.Context) ([]entity.FlightSummary, error) {
	return nil, nil
}

func (emptyReports) AveragePriceByDaysBefore(ctx context.Context) ([]entity.DaysBeforeAverage, error) {
	return nil, nil
}

func (emptyReports) PricingMatrices(ctx context.Context) (*entity.PricingMatrices, error) {
	return &entity.PricingMatrices{}, nil
}

func (emptyReports) PriceDevelopmentByDow(ctx context.Context) ([]entity.DevelopmentPoint, error) {
	return nil, nil
}

func TestNewRouter(t *testing.T) {
	Convey("Given the service router", t, func() {
		log := logger.NewNopLogger()
		metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		})
		handler := NewRouter(httpapi.NewHandler(emptyReports{}, log), metrics, log)

		get := func(path string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			return rec
		}

		Convey("Health answers OK", func() {
			rec := get("/health")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, "Healthy")
		})

		Convey("Metrics are mounted", func() {
			So(get("/metrics").Body.String(), ShouldEqual, "# metrics")
		})

		Convey("Every report route is mounted", func() {
			for _, path := range []string{
				"/api/statistics",
				"/api/entries/last",
				"/api/flights",
				"/api/prices/days-before",
				"/api/prices/matrices",
				"/api/prices/development",
			} {
				So(get(path).Code, ShouldEqual, http.StatusOK)
			}
		})

		Convey("Unknown paths are not found", func() {
			So(get("/api/unknown").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Writes are not allowed", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/statistics", nil))
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}
