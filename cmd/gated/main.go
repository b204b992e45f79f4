// gated is the development harness for the brandgate enforcement core. It
// serves the enforcement API over an in-memory data store seeded with demo
// tenants, talking to a real Redis when one is configured.
package main

import (
	"flag"
	"log/slog"
	"os"

	"brandgate/internal/app"
	"brandgate/internal/clock"
	"brandgate/internal/config"
	"brandgate/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	seedPath := flag.String("seed", "", "path to YAML fixture file (default: built-in demo data)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	st := store.NewMemoryStore()
	if *seedPath != "" {
		if err := app.LoadSeedFile(*seedPath, st); err != nil {
			slog.Error("failed to load seed file", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		app.SeedDemoData(st, clock.System{})
	}

	application, err := app.New(cfg, st)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
