// Fare tracker CLI
//
// Usage:
//
//	faretracker track [--routes VLC-BER,VLC-STN] [--days 50]
//	faretracker replay [--origin VLC] [--since 2026-03-01]
//	faretracker stats
//	faretracker serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "faretracker",
		Usage:   "Collect one-way fare observations and report on price development",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"FARETRACKER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"FARETRACKER_LOG_LEVEL"},
			},
		},

		Commands: []*cli.Command{
			trackCommand(),
			replayCommand(),
			statsCommand(),
			serveCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
