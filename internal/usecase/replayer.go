package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/domain/repository"
	"fare-tracker-service/pkg/logger"
	"fare-tracker-service/pkg/utils"
)

// ReplayResult counts what a replay read and rebuilt
type ReplayResult struct {
	Responses      int `json:"responses"`
	EmptyResponses int `json:"emptyResponses"`
	Observations   int `json:"observations"`
}

// Replayer rebuilds flights and prices from the raw archive
type Replayer struct {
	archive  repository.RawArchiveRepository
	flights  repository.FlightRepository
	parser   *utils.FareParser
	logger   logger.Logger
	location *time.Location
}

// NewReplayer creates a new replayer. A nil location means time.Local.
func NewReplayer(
	archive repository.RawArchiveRepository,
	flights repository.FlightRepository,
	parser *utils.FareParser,
	logger logger.Logger,
	location *time.Location,
) *Replayer {
	if location == nil {
		location = time.Local
	}
	return &Replayer{
		archive:  archive,
		flights:  flights,
		parser:   parser,
		logger:   logger,
		location: location,
	}
}

// Replay parses every archived response matching filter, using its capture
// instant as the observation instant, and saves the result in one batch.
// Rows that are already stored are left untouched.
func (r *Replayer) Replay(ctx context.Context, filter entity.RawResponseFilter) (*ReplayResult, error) {
	rows, err := r.archive.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{}
	batch := entity.NewBatch()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := utils.DecompressJSON(row.ResponseGzip)
		if err != nil {
			return nil, fmt.Errorf("archived response %s: %w", row.ID, err)
		}

		var resp entity.FareResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("%w: archived response %s: %v", entity.ErrMalformedResponse, row.ID, err)
		}
		resp.Raw = raw
		result.Responses++

		if !utils.HasFares(&resp) {
			result.EmptyResponses++
			continue
		}

		obs, err := r.parser.Parse(&resp, row.QueryDate.In(r.location))
		if err != nil {
			return nil, fmt.Errorf("archived response %s: %w", row.ID, err)
		}
		if obs == nil {
			result.EmptyResponses++
			continue
		}
		batch.Add(obs)
	}

	if err := r.flights.SaveBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save replayed batch: %w", err)
	}
	result.Observations = batch.Len()

	r.logger.Info("Replay completed",
		"responses", result.Responses,
		"emptyResponses", result.EmptyResponses,
		"observations", result.Observations)

	return result, nil
}
