package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/pkg/utils"
)

const archivedBody = `{"total": 1, "fares": [{"outbound": {"flightNumber": "FR642"}}]}`

func TestGormRawArchiveRepository(t *testing.T) {
	Convey("Given a raw archive on a fresh sqlite database", t, func() {
		ctx := context.Background()
		repo := NewGormRawArchiveRepository(openTestDB(t, "raw_data.db"), time.UTC)
		So(repo.EnsureSchema(ctx), ShouldBeNil)
		So(repo.EnsureSchema(ctx), ShouldBeNil)

		capturedAt := time.Date(2026, 3, 20, 10, 15, 0, 0, time.UTC)

		Convey("When a response is archived", func() {
			rec, err := repo.Archive(ctx, []byte(archivedBody), "VLC", "STN", "2026-03-25", capturedAt)
			So(err, ShouldBeNil)
			So(rec.ID, ShouldEqual, "1")
			So(rec.ResponseHash, ShouldHaveLength, 64)

			Convey("The stored payload decompresses to the compact body", func() {
				raw, err := utils.DecompressJSON(rec.ResponseGzip)
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, `{"total":1,"fares":[{"outbound":{"flightNumber":"FR642"}}]}`)
			})

			Convey("Archiving the same body at the same instant is a duplicate", func() {
				_, err := repo.Archive(ctx, []byte(archivedBody), "VLC", "STN", "2026-03-25", capturedAt)
				So(errors.Is(err, entity.ErrDuplicateArchive), ShouldBeTrue)
			})

			Convey("Archiving the same body at another instant is a new row", func() {
				next, err := repo.Archive(ctx, []byte(archivedBody), "VLC", "STN", "2026-03-25", capturedAt.Add(time.Second))
				So(err, ShouldBeNil)
				So(next.ResponseHash, ShouldNotEqual, rec.ResponseHash)
			})

			Convey("Listing returns it with its metadata", func() {
				rows, err := repo.List(ctx, entity.RawResponseFilter{})
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Origin, ShouldEqual, "VLC")
				So(rows[0].Destination, ShouldEqual, "STN")
				So(rows[0].DepartureDate, ShouldEqual, "2026-03-25")
				So(rows[0].QueryDate.Equal(capturedAt), ShouldBeTrue)
				So(rows[0].ResponseHash, ShouldEqual, rec.ResponseHash)
			})
		})

		Convey("When several routes are archived the filter narrows the listing", func() {
			_, err := repo.Archive(ctx, []byte(archivedBody), "VLC", "STN", "2026-03-25", capturedAt)
			So(err, ShouldBeNil)
			_, err = repo.Archive(ctx, []byte(`{"total": 0}`), "VLC", "BER", "2026-03-25", capturedAt.Add(time.Hour))
			So(err, ShouldBeNil)
			_, err = repo.Archive(ctx, []byte(`{"total": 0}`), "MAD", "BER", "2026-03-26", capturedAt.Add(2*time.Hour))
			So(err, ShouldBeNil)

			rows, err := repo.List(ctx, entity.RawResponseFilter{Destination: "BER"})
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)

			rows, err = repo.List(ctx, entity.RawResponseFilter{Origin: "VLC", Destination: "BER"})
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)

			since := capturedAt.Add(30 * time.Minute)
			rows, err = repo.List(ctx, entity.RawResponseFilter{Since: &since})
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Destination, ShouldEqual, "BER")

			until := capturedAt.Add(90 * time.Minute)
			rows, err = repo.List(ctx, entity.RawResponseFilter{Since: &since, Until: &until})
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)

			rows, err = repo.List(ctx, entity.RawResponseFilter{Limit: 1})
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Destination, ShouldEqual, "STN")
		})

		Convey("A body that is not JSON is rejected before storage", func() {
			_, err := repo.Archive(ctx, []byte("<html>"), "VLC", "STN", "2026-03-25", capturedAt)
			So(err, ShouldNotBeNil)
			rows, err := repo.List(ctx, entity.RawResponseFilter{})
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})
}
