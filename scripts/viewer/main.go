// Command viewer is a terminal caption viewer for another device: it polls
// the server's room state endpoint and renders the reconciled view, the
// same read path a remote browser viewer uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/livesteno/livesteno-server/internal/config"
	"github.com/livesteno/livesteno-server/internal/log"
	"github.com/livesteno/livesteno-server/internal/roomstate"
	"github.com/livesteno/livesteno-server/internal/viewer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	server := flag.String("server", "http://localhost:8080", "caption server base URL")
	room := flag.String("room", "", "room id to watch")
	configPath := flag.String("config", "", "path to config file")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if *room == "" {
		return fmt.Errorf("missing -room")
	}

	logger := log.New(*logLevel)
	cfg, _, err := config.Load(logger, *configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = viewer.DefaultPollInterval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := viewer.NewState()
	client := roomstate.NewClient(*server, logger)
	poller := viewer.NewPoller(client, state, *room, cfg.PollInterval, logger)
	go poller.Run(ctx)

	fmt.Printf("Watching room %s on %s, polling every %s. Ctrl+C to exit.\n",
		*room, *server, cfg.PollInterval)

	redraw := time.NewTicker(cfg.PollInterval)
	defer redraw.Stop()

	var last string
	for {
		select {
		case <-redraw.C:
			out := state.View().Render()
			if out == last {
				continue
			}
			last = out
			fmt.Print("\033[H\033[2J") // clear screen, cursor home
			fmt.Print(out)
		case <-ctx.Done():
			fmt.Println()
			return nil
		}
	}
}
