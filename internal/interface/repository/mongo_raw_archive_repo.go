package repository

import (
	"context"
	"fmt"
	"time"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const rawResponsesCollection = "raw_api_responses"

// MongoRawArchiveRepository implements RawArchiveRepository on MongoDB
type MongoRawArchiveRepository struct {
	collection *mongo.Collection
}

// NewMongoRawArchiveRepository creates a new MongoDB raw archive repository
func NewMongoRawArchiveRepository(db *mongo.Database) repository.RawArchiveRepository {
	return &MongoRawArchiveRepository{
		collection: db.Collection(rawResponsesCollection),
	}
}

type rawResponseDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	QueryDate     time.Time          `bson:"queryDate"`
	Origin        string             `bson:"origin"`
	Destination   string             `bson:"destination"`
	DepartureDate string             `bson:"departureDate"`
	ResponseGzip  []byte             `bson:"responseGzip"`
	ResponseHash  string             `bson:"responseHash"`
}

// EnsureSchema creates the unique hash index and a lookup index per route
func (r *MongoRawArchiveRepository) EnsureSchema(ctx context.Context) error {
	// Unique index on responseHash
	hashIndex := mongo.IndexModel{
		Keys:    bson.M{"responseHash": 1},
		Options: options.Index().SetUnique(true).SetName("idx_raw_response_hash"),
	}

	// Compound index for route listings
	routeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "origin", Value: 1},
			{Key: "destination", Value: 1},
			{Key: "queryDate", Value: 1},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{hashIndex, routeIndex}); err != nil {
		return fmt.Errorf("failed to create raw archive indexes: %w", err)
	}
	return nil
}

// Archive compresses and stores one raw response
func (r *MongoRawArchiveRepository) Archive(ctx context.Context, raw []byte, origin, destination, departureDate string, capturedAt time.Time) (*entity.RawResponse, error) {
	record, err := newRawResponse(raw, origin, destination, departureDate, capturedAt)
	if err != nil {
		return nil, err
	}

	doc := rawResponseDocument{
		ID:            primitive.NewObjectID(),
		QueryDate:     record.QueryDate,
		Origin:        record.Origin,
		Destination:   record.Destination,
		DepartureDate: record.DepartureDate,
		ResponseGzip:  record.ResponseGzip,
		ResponseHash:  record.ResponseHash,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: hash %s", entity.ErrDuplicateArchive, record.ResponseHash)
		}
		return nil, fmt.Errorf("failed to archive raw response: %w", err)
	}

	record.ID = doc.ID.Hex()
	return record, nil
}

// List returns archived responses ordered by capture time
func (r *MongoRawArchiveRepository) List(ctx context.Context, filter entity.RawResponseFilter) ([]*entity.RawResponse, error) {
	query := bson.M{}
	if filter.Origin != "" {
		query["origin"] = filter.Origin
	}
	if filter.Destination != "" {
		query["destination"] = filter.Destination
	}

	window := bson.M{}
	if filter.Since != nil {
		window["$gte"] = *filter.Since
	}
	if filter.Until != nil {
		window["$lte"] = *filter.Until
	}
	if len(window) > 0 {
		query["queryDate"] = window
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "queryDate", Value: 1},
		{Key: "_id", Value: 1},
	})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw responses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []rawResponseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode raw responses: %w", err)
	}

	out := make([]*entity.RawResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, &entity.RawResponse{
			ID:            doc.ID.Hex(),
			QueryDate:     doc.QueryDate,
			Origin:        doc.Origin,
			Destination:   doc.Destination,
			DepartureDate: doc.DepartureDate,
			ResponseGzip:  doc.ResponseGzip,
			ResponseHash:  doc.ResponseHash,
		})
	}
	return out, nil
}
