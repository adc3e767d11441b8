package ryanair

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/pkg/logger"
)

const fareBody = `{"total": 1, "fares": [{"outbound": {"flightNumber": "FR642", "departureDate": "2026-03-25T06:00:00", "departureAirport": {"iataCode": "VLC"}, "arrivalAirport": {"iataCode": "STN"}, "price": {"value": 45.99, "currencyCode": "EUR"}}}]}`

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:  serverURL + "/farfnd/3/oneWayFares",
		Language: "en",
		Market:   "en-gb",
		Limit:    16,
		Timeout:  2 * time.Second,
	}, logger.NewNopLogger())
}

func TestClient_SearchOneWay(t *testing.T) {
	Convey("Given a fare search server", t, func() {
		var query url.Values
		var path string
		status := http.StatusOK
		body := fareBody

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			query = r.URL.Query()
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		Convey("A search sends one query for a single day", func() {
			resp, err := client.SearchOneWay(context.Background(), "VLC", "STN", "2026-03-25")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/farfnd/3/oneWayFares")
			So(query.Get("departureAirportIataCode"), ShouldEqual, "VLC")
			So(query.Get("arrivalAirportIataCode"), ShouldEqual, "STN")
			So(query.Get("language"), ShouldEqual, "en")
			So(query.Get("limit"), ShouldEqual, "16")
			So(query.Get("market"), ShouldEqual, "en-gb")
			So(query.Get("offset"), ShouldEqual, "0")
			So(query.Get("outboundDepartureDateFrom"), ShouldEqual, "2026-03-25")
			So(query.Get("outboundDepartureDateTo"), ShouldEqual, "2026-03-25")

			Convey("The decoded body and the raw bytes are returned", func() {
				So(resp.Total, ShouldEqual, 1)
				So(resp.Fares, ShouldHaveLength, 1)
				So(*resp.Fares[0].Outbound.FlightNumber, ShouldEqual, "FR642")
				So(resp.Fares[0].Outbound.Price.Value.String(), ShouldEqual, "45.99")
				So(string(resp.Raw), ShouldEqual, fareBody)
			})
		})

		Convey("An empty result decodes with a zero total", func() {
			body = `{"fares": []}`
			resp, err := client.SearchOneWay(context.Background(), "VLC", "STN", "2026-03-25")
			So(err, ShouldBeNil)
			So(resp.Total, ShouldEqual, 0)
		})

		Convey("A non-2xx status is a network error", func() {
			status = http.StatusServiceUnavailable
			_, err := client.SearchOneWay(context.Background(), "VLC", "STN", "2026-03-25")
			So(errors.Is(err, entity.ErrNetwork), ShouldBeTrue)
		})

		Convey("A body that is not JSON is a malformed response", func() {
			body = "<html>maintenance</html>"
			_, err := client.SearchOneWay(context.Background(), "VLC", "STN", "2026-03-25")
			So(errors.Is(err, entity.ErrMalformedResponse), ShouldBeTrue)
		})

		Convey("A cancelled context is a network error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := client.SearchOneWay(ctx, "VLC", "STN", "2026-03-25")
			So(errors.Is(err, entity.ErrNetwork), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable server", t, func() {
		client := newTestClient("http://127.0.0.1:1")
		_, err := client.SearchOneWay(context.Background(), "VLC", "STN", "2026-03-25")
		So(errors.Is(err, entity.ErrNetwork), ShouldBeTrue)
	})
}
