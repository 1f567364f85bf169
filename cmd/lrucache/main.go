package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lrucache"
	app.Usage = "exercise a bounded least-recently-used cache"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a config file (yaml, json or toml)",
		},
		&cli.IntFlag{
			Name:    "capacity",
			Aliases: []string{"c"},
			Usage:   fmt.Sprintf("maximum number of cached entries (default %d)", defaultCapacity),
		},
		&cli.DurationFlag{
			Name:  "report-interval",
			Usage: "log cache stats this often; 0 disables the reporter",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log cache activity (evictions, stats) to stderr",
		},
	}
	app.Commands = []*cli.Command{
		demoCommand,
		replayCommand,
		configCommand,
	}
	return app
}

func main() {
	// Signal-aware context is the root of ownership for long-lived background work.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
