package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"fare-tracker-service/internal/domain/repository"
	"fare-tracker-service/internal/infrastructure/config"
	"fare-tracker-service/internal/infrastructure/persistence"
	repo "fare-tracker-service/internal/interface/repository"
	"fare-tracker-service/pkg/logger"
	"fare-tracker-service/pkg/metrics"
	"fare-tracker-service/pkg/utils"
)

// runtime holds the collaborators shared by every command
type runtime struct {
	cfg     *config.Config
	log     *logger.ZapLogger
	metrics *metrics.Metrics

	db      *gorm.DB
	rawDB   *gorm.DB
	mongo   *mongo.Client
	flights repository.FlightRepository
	archive repository.RawArchiveRepository
	parser  *utils.FareParser
}

// loadConfig reads the layered config and applies the global flags
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		os.Setenv("FARETRACKER_CONFIG", path)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, nil
}

// newRuntime opens the stores. withArchive also opens the raw archive backend.
func newRuntime(ctx context.Context, cfg *config.Config, withArchive bool) (*runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &runtime{
		cfg:     cfg,
		log:     logger.NewLogger(cfg.LogLevel),
		metrics: metrics.NewMetrics("faretracker"),
	}
	rt.parser = utils.NewFareParser(utils.NewSpanishHolidayCalendar(), rt.log)

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rt.log.Info("Opening flight store", "driver", cfg.DBDriver)
	rt.db, err = persistence.OpenGorm(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	rt.flights = repo.NewGormFlightRepository(rt.db)
	if err := rt.flights.EnsureSchema(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	if !withArchive {
		return rt, nil
	}

	switch cfg.RawArchiveBackend {
	case "mongo":
		rt.log.Info("Connecting to MongoDB", "database", cfg.MongoDB)
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.mongo = client
		rt.archive = repo.NewMongoRawArchiveRepository(db)
	default:
		// the sql archive shares the flight store's driver
		rt.rawDB, err = persistence.OpenGorm(cfg.DBDriver, cfg.RawDBDSN)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.archive = repo.NewGormRawArchiveRepository(rt.rawDB, location)
	}

	if err := rt.archive.EnsureSchema(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}

// Close releases every open connection
func (rt *runtime) Close() {
	if rt.db != nil {
		if err := persistence.CloseGorm(rt.db); err != nil {
			rt.log.Error("Failed to close flight store", "error", err)
		}
	}
	if rt.rawDB != nil {
		if err := persistence.CloseGorm(rt.rawDB); err != nil {
			rt.log.Error("Failed to close raw archive", "error", err)
		}
	}
	if rt.mongo != nil {
		if err := rt.mongo.Disconnect(context.Background()); err != nil {
			rt.log.Error("MongoDB disconnect error", "error", err)
		}
	}
	rt.log.Sync()
}

func (rt *runtime) notifier() repository.Notifier {
	if rt.cfg.NotifyURL == "" {
		return repo.NewNoopNotifier(rt.log)
	}
	return repo.NewWebhookNotifier(rt.cfg.NotifyURL, rt.cfg.NotifyTopic, rt.cfg.HTTPTimeout, rt.log)
}
