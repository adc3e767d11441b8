package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/pkg/utils"
)

func TestMongoRawArchiveRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	capturedAt := time.Date(2026, 3, 20, 10, 15, 0, 0, time.UTC)

	mt.Run("ensure schema", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewMongoRawArchiveRepository(mt.DB)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			mt.Fatalf("EnsureSchema: %v", err)
		}
	})

	mt.Run("archive", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewMongoRawArchiveRepository(mt.DB)
		rec, err := repo.Archive(context.Background(), []byte(archivedBody), "VLC", "STN", "2026-03-25", capturedAt)
		if err != nil {
			mt.Fatalf("Archive: %v", err)
		}
		if rec.ID == "" {
			mt.Fatal("expected an id")
		}

		want, _ := utils.HashJSON([]byte(archivedBody), capturedAt.Format(utils.QueryDateLayout))
		if rec.ResponseHash != want {
			mt.Fatalf("hash = %s, want %s", rec.ResponseHash, want)
		}
	})

	mt.Run("duplicate hash", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: faretracker.raw_api_responses",
		}))

		repo := NewMongoRawArchiveRepository(mt.DB)
		_, err := repo.Archive(context.Background(), []byte(archivedBody), "VLC", "STN", "2026-03-25", capturedAt)
		if !errors.Is(err, entity.ErrDuplicateArchive) {
			mt.Fatalf("expected ErrDuplicateArchive, got %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		compressed, err := utils.CompressJSON([]byte(archivedBody))
		if err != nil {
			mt.Fatal(err)
		}
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + rawResponsesCollection

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "queryDate", Value: capturedAt},
				{Key: "origin", Value: "VLC"},
				{Key: "destination", Value: "STN"},
				{Key: "departureDate", Value: "2026-03-25"},
				{Key: "responseGzip", Value: compressed},
				{Key: "responseHash", Value: "abc"},
			}),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		repo := NewMongoRawArchiveRepository(mt.DB)
		rows, err := repo.List(context.Background(), entity.RawResponseFilter{Origin: "VLC", Limit: 10})
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if len(rows) != 1 {
			mt.Fatalf("expected 1 row, got %d", len(rows))
		}
		if rows[0].ID != id.Hex() || rows[0].Destination != "STN" || !rows[0].QueryDate.Equal(capturedAt) {
			mt.Fatalf("unexpected row %+v", rows[0])
		}

		raw, err := utils.DecompressJSON(rows[0].ResponseGzip)
		if err != nil {
			mt.Fatal(err)
		}
		if string(raw) != `{"total":1,"fares":[{"outbound":{"flightNumber":"FR642"}}]}` {
			mt.Fatalf("unexpected payload %s", raw)
		}
	})
}
