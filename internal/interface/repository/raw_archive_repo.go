package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/domain/repository"
	"fare-tracker-service/pkg/utils"

	"gorm.io/gorm"
)

// GormRawArchiveRepository implements RawArchiveRepository on a relational database
type GormRawArchiveRepository struct {
	db *gorm.DB
	// query_date is stored as wall clock time in this location
	location *time.Location
}

// NewGormRawArchiveRepository creates a new GORM raw archive repository.
// A nil location means time.Local.
func NewGormRawArchiveRepository(db *gorm.DB, location *time.Location) repository.RawArchiveRepository {
	if location == nil {
		location = time.Local
	}
	return &GormRawArchiveRepository{
		db:       db,
		location: location,
	}
}

// RawAPIResponses GORM model for database mapping
type RawAPIResponses struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	QueryDate     string `gorm:"column:query_date"`
	Origin        string `gorm:"column:origin"`
	Destination   string `gorm:"column:destination"`
	DepartureDate string `gorm:"column:departure_date"`
	ResponseGzip  []byte `gorm:"column:response_gzip"`
	ResponseHash  string `gorm:"column:response_hash"`
}

// TableName overrides the default table name
func (RawAPIResponses) TableName() string {
	return "raw_api_responses"
}

// EnsureSchema creates the archive table and its unique hash index
func (r *GormRawArchiveRepository) EnsureSchema(ctx context.Context) error {
	statements := renderSchema(r.db.Dialector.Name(), rawResponsesTable, rawResponsesHashIndex)
	for _, stmt := range statements {
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create raw archive schema: %w", err)
		}
	}
	return nil
}

// Archive compresses and stores one raw response. A hash that is already
// archived fails with entity.ErrDuplicateArchive.
func (r *GormRawArchiveRepository) Archive(ctx context.Context, raw []byte, origin, destination, departureDate string, capturedAt time.Time) (*entity.RawResponse, error) {
	record, err := newRawResponse(raw, origin, destination, departureDate, capturedAt.In(r.location))
	if err != nil {
		return nil, err
	}

	model := RawAPIResponses{
		QueryDate:     record.QueryDate.Format(utils.QueryDateLayout),
		Origin:        record.Origin,
		Destination:   record.Destination,
		DepartureDate: record.DepartureDate,
		ResponseGzip:  record.ResponseGzip,
		ResponseHash:  record.ResponseHash,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: hash %s", entity.ErrDuplicateArchive, record.ResponseHash)
		}
		return nil, fmt.Errorf("failed to archive raw response: %w", err)
	}

	record.ID = strconv.FormatInt(model.ID, 10)
	return record, nil
}

// List returns archived responses in insertion order
func (r *GormRawArchiveRepository) List(ctx context.Context, filter entity.RawResponseFilter) ([]*entity.RawResponse, error) {
	query := r.db.WithContext(ctx).Model(&RawAPIResponses{})

	if filter.Origin != "" {
		query = query.Where("origin = ?", filter.Origin)
	}
	if filter.Destination != "" {
		query = query.Where("destination = ?", filter.Destination)
	}
	if filter.Since != nil {
		query = query.Where("query_date >= ?", filter.Since.In(r.location).Format(utils.QueryDateLayout))
	}
	if filter.Until != nil {
		query = query.Where("query_date <= ?", filter.Until.In(r.location).Format(utils.QueryDateLayout))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []RawAPIResponses
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list raw responses: %w", err)
	}

	out := make([]*entity.RawResponse, 0, len(rows))
	for _, row := range rows {
		queryDate, err := time.ParseInLocation(utils.QueryDateLayout, row.QueryDate, r.location)
		if err != nil {
			return nil, fmt.Errorf("invalid query_date %q on raw response %d: %w", row.QueryDate, row.ID, err)
		}
		out = append(out, &entity.RawResponse{
			ID:            strconv.FormatInt(row.ID, 10),
			QueryDate:     queryDate,
			Origin:        row.Origin,
			Destination:   row.Destination,
			DepartureDate: row.DepartureDate,
			ResponseGzip:  row.ResponseGzip,
			ResponseHash:  row.ResponseHash,
		})
	}
	return out, nil
}

// newRawResponse builds the archive record shared by every backend
func newRawResponse(raw []byte, origin, destination, departureDate string, capturedAt time.Time) (*entity.RawResponse, error) {
	compressed, err := utils.CompressJSON(raw)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashJSON(raw, capturedAt.Format(utils.QueryDateLayout))
	if err != nil {
		return nil, err
	}

	return &entity.RawResponse{
		QueryDate:     capturedAt,
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		ResponseGzip:  compressed,
		ResponseHash:  hash,
	}, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
