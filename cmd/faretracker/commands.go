package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/infrastructure/router"
	"fare-tracker-service/internal/interface/httpapi"
	repo "fare-tracker-service/internal/interface/repository"
	"fare-tracker-service/internal/interface/ryanair"
	"fare-tracker-service/internal/usecase"
	"fare-tracker-service/pkg/utils"
)

// =============================================================================
// TRACK COMMAND
// =============================================================================

func trackCommand() *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Query every route for the configured departure window and store the fares",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "routes",
				Aliases: []string{"r"},
				Usage:   "Routes as ORIGIN-DESTINATION, e.g. VLC-BER",
			},
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Number of consecutive departure days per route",
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Days between today and the first queried departure day",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Pause between two fare requests",
			},
		},
		Action: runTrack,
	}
}

func runTrack(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("routes") {
		cfg.Routes = c.StringSlice("routes")
	}
	if c.IsSet("days") {
		cfg.DaysToTrack = c.Int("days")
	}
	if c.IsSet("offset") {
		cfg.StartOffsetDays = c.Int("offset")
	}
	if c.IsSet("delay") {
		cfg.RequestDelay = c.Duration("delay")
	}

	ctx := c.Context
	rt, err := newRuntime(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	routes, err := cfg.ParsedRoutes()
	if err != nil {
		return err
	}
	location, err := cfg.Location()
	if err != nil {
		return err
	}

	client := ryanair.NewClient(ryanair.ClientConfig{
		BaseURL:  cfg.FareAPIURL,
		Language: cfg.FareLanguage,
		Market:   cfg.FareMarket,
		Limit:    cfg.FareLimit,
		Timeout:  cfg.HTTPTimeout,
	}, rt.log)

	tracker := usecase.NewTracker(
		client, rt.flights, rt.archive, rt.notifier(), rt.parser, rt.metrics, rt.log,
		usecase.TrackerOptions{RequestDelay: cfg.RequestDelay, Location: location},
	)

	report, runErr := tracker.Run(ctx, usecase.TrackPlan{
		Routes:          routes,
		Days:            cfg.DaysToTrack,
		StartOffsetDays: cfg.StartOffsetDays,
	})

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := rt.metrics.Push(pushCtx, cfg.PushgatewayURL, cfg.MetricsJob); err != nil {
			rt.log.Warn("Failed to push metrics", "error", err)
		}
	}

	if err := printJSON(report); err != nil {
		return err
	}
	return runErr
}

// =============================================================================
// REPLAY COMMAND
// =============================================================================

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "Rebuild flights and prices from the raw response archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "origin",
				Usage: "Only replay responses for this origin airport",
			},
			&cli.StringFlag{
				Name:  "destination",
				Usage: "Only replay responses for this destination airport",
			},
			&cli.TimestampFlag{
				Name:   "since",
				Usage:  "Only replay responses captured at or after this day (YYYY-MM-DD)",
				Layout: utils.DateLayout,
			},
			&cli.TimestampFlag{
				Name:   "until",
				Usage:  "Only replay responses captured at or before this day (YYYY-MM-DD)",
				Layout: utils.DateLayout,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of archived responses to replay",
			},
		},
		Action: runReplay,
	}
}

func runReplay(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	rt, err := newRuntime(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	filter := entity.RawResponseFilter{
		Origin:      c.String("origin"),
		Destination: c.String("destination"),
		Since:       dayBound(c.Timestamp("since"), location, false),
		Until:       dayBound(c.Timestamp("until"), location, true),
		Limit:       c.Int("limit"),
	}

	result, err := usecase.NewReplayer(rt.archive, rt.flights, rt.parser, rt.log, location).Replay(ctx, filter)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// dayBound turns a parsed day into the first or last instant of that day in loc
func dayBound(day *time.Time, loc *time.Location, endOfDay bool) *time.Time {
	if day == nil {
		return nil
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t
}

// =============================================================================
// STATS COMMAND
// =============================================================================

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print the global price statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "flights",
				Usage: "Also list every flight with its average price",
			},
		},
		Action: runStats,
	}
}

func runStats(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	rt, err := newRuntime(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	reports := repo.NewGormReportRepository(rt.db)

	stats, err := reports.Statistics(ctx)
	if err != nil {
		return err
	}

	out := map[string]interface{}{"statistics": stats}
	if c.Bool("flights") {
		flights, err := reports.FlightsWithAveragePrice(ctx)
		if err != nil {
			return err
		}
		out["flights"] = flights
	}
	return printJSON(out)
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the reporting API, health check and metrics over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}

	ctx := c.Context
	rt, err := newRuntime(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	handler := httpapi.NewHandler(repo.NewGormReportRepository(rt.db), rt.log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(handler, rt.metrics.Handler(), rt.log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		rt.log.Info("Shutting down HTTP server")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown error: %w", err)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
