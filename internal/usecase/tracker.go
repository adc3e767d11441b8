package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/domain/repository"
	"fare-tracker-service/pkg/logger"
	"fare-tracker-service/pkg/metrics"
	"fare-tracker-service/pkg/utils"
)

const notifyTimeout = 15 * time.Second

// TrackPlan is the set of queries one run issues
type TrackPlan struct {
	Routes []entity.Route
	// Days is the number of consecutive departure days queried per route
	Days int
	// StartOffsetDays shifts the first departure day away from today
	StartOffsetDays int
}

// TrackerOptions tune the driver loop
type TrackerOptions struct {
	// RequestDelay is waited between two consecutive fare requests
	RequestDelay time.Duration
	// Location is the zone observation instants are taken in. Nil means time.Local.
	Location *time.Location
	// Now overrides the clock, for tests
	Now func() time.Time
}

// Tracker runs one ingestion pass: fetch, archive, parse, then persist the whole batch
type Tracker struct {
	source   repository.FareSource
	flights  repository.FlightRepository
	archive  repository.RawArchiveRepository
	notifier repository.Notifier
	parser   *utils.FareParser
	metrics  *metrics.Metrics
	logger   logger.Logger

	delay    time.Duration
	location *time.Location
	now      func() time.Time
}

// NewTracker creates a new tracker
func NewTracker(
	source repository.FareSource,
	flights repository.FlightRepository,
	archive repository.RawArchiveRepository,
	notifier repository.Notifier,
	parser *utils.FareParser,
	metrics *metrics.Metrics,
	logger logger.Logger,
	opts TrackerOptions,
) *Tracker {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Tracker{
		source:   source,
		flights:  flights,
		archive:  archive,
		notifier: notifier,
		parser:   parser,
		metrics:  metrics,
		logger:   logger,
		delay:    opts.RequestDelay,
		location: opts.Location,
		now:      opts.Now,
	}
}

// Run executes plan. Observations are only persisted when every query of the
// run succeeded; the first error aborts the run and nothing is saved. Raw
// responses are archived as they arrive. The returned report is never nil.
func (t *Tracker) Run(ctx context.Context, plan TrackPlan) (*entity.RunReport, error) {
	report := &entity.RunReport{
		RunID:     uuid.NewString(),
		Status:    entity.RunSucceeded,
		Routes:    plan.Routes,
		StartedAt: t.now().In(t.location),
	}
	log := t.logger.With("runId", report.RunID)

	log.Info("Starting tracking run",
		"routes", len(plan.Routes),
		"days", plan.Days,
		"startOffsetDays", plan.StartOffsetDays)

	err := t.run(ctx, plan, report, log)

	report.FinishedAt = t.now().In(t.location)
	t.metrics.RunDuration.Observe(report.Duration().Seconds())

	if err != nil {
		report.Fail(err)
		t.metrics.LastRunSuccess.Set(0)
		log.Error("Tracking run failed",
			"error", err,
			"queries", report.Queries,
			"archived", report.Archived)
	} else {
		t.metrics.LastRunSuccess.Set(1)
		log.Info("Tracking run completed",
			"queries", report.Queries,
			"emptyResponses", report.EmptyResponses,
			"observations", report.Observations,
			"duration", report.Duration())
	}

	t.notify(ctx, report, log)

	return report, err
}

func (t *Tracker) run(ctx context.Context, plan TrackPlan, report *entity.RunReport, log logger.Logger) error {
	if len(plan.Routes) == 0 {
		return errors.New("tracking plan has no routes")
	}
	if plan.Days <= 0 {
		return fmt.Errorf("tracking plan needs a positive day count, got %d", plan.Days)
	}

	batch := entity.NewBatch()
	today := utils.CivilDate(t.now().In(t.location))
	total := len(plan.Routes) * plan.Days

	for _, route := range plan.Routes {
		for day := 0; day < plan.Days; day++ {
			date := today.AddDate(0, 0, plan.StartOffsetDays+day).Format(utils.DateLayout)

			if err := t.query(ctx, route, date, batch, report, log); err != nil {
				return err
			}

			if report.Queries < total {
				if err := sleep(ctx, t.delay); err != nil {
					return err
				}
			}
		}
	}

	if err := t.flights.SaveBatch(ctx, batch); err != nil {
		t.metrics.ErrorsCount.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to save batch: %w", err)
	}

	report.Observations = batch.Len()
	t.metrics.FlightsSaved.Add(float64(batch.Len()))
	t.metrics.PricesSaved.Add(float64(batch.Len()))
	return nil
}

// query fetches, archives and parses one route/day
func (t *Tracker) query(ctx context.Context, route entity.Route, date string, batch *entity.Batch, report *entity.RunReport, log logger.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	observedAt := t.now().In(t.location)
	t.metrics.FareRequests.WithLabelValues(route.String()).Inc()

	start := time.Now()
	resp, err := t.source.SearchOneWay(ctx, route.Origin, route.Destination, date)
	t.metrics.RequestTime.Observe(time.Since(start).Seconds())
	report.Queries++
	if err != nil {
		t.metrics.ErrorsCount.WithLabelValues("fetch").Inc()
		return fmt.Errorf("failed to fetch %s on %s: %w", route, date, err)
	}

	if _, err := t.archive.Archive(ctx, resp.Raw, route.Origin, route.Destination, date, observedAt); err != nil {
		t.metrics.ErrorsCount.WithLabelValues("archive").Inc()
		return fmt.Errorf("failed to archive %s on %s: %w", route, date, err)
	}
	report.Archived++
	t.metrics.ResponsesArchived.Inc()

	if !utils.HasFares(resp) {
		report.EmptyResponses++
		t.metrics.EmptyResponses.Inc()
		log.Debug("No fares", "route", route.String(), "date", date)
		return nil
	}

	obs, err := t.parser.Parse(resp, observedAt)
	if err != nil {
		t.metrics.ErrorsCount.WithLabelValues("parse").Inc()
		return fmt.Errorf("failed to parse %s on %s: %w", route, date, err)
	}
	if obs == nil {
		report.EmptyResponses++
		t.metrics.EmptyResponses.Inc()
		return nil
	}

	batch.Add(obs)
	t.metrics.FaresParsed.Inc()
	log.Debug("Fare collected",
		"route", route.String(),
		"date", date,
		"flightId", obs.FlightID,
		"price", obs.Price.Price)

	return nil
}

// notify publishes the outcome. Failures are logged only.
func (t *Tracker) notify(ctx context.Context, report *entity.RunReport, log logger.Logger) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := t.notifier.Notify(notifyCtx, report); err != nil {
		t.metrics.ErrorsCount.WithLabelValues("notify").Inc()
		log.Warn("Failed to send run notification", "error", err)
	}
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
