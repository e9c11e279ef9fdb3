// Command bikectl inspects and updates the bike rental spreadsheet from a
// terminal, using the same record store as the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"bikerental/tracker/internal/commands"
	"bikerental/tracker/internal/config"
	"bikerental/tracker/internal/logging"
	"bikerental/tracker/internal/services"
)

func main() {
	cfg := config.Load()

	// Keep the terminal quiet unless asked otherwise.
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	if err := logging.Init(cfg.AppEnv, level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()
	for _, w := range cfg.Warnings {
		logging.Warn("Configuration value ignored", "detail", w)
	}

	rootCmd := commands.NewRootCommand(func() (commands.BikeService, func() error, error) {
		rt, err := services.NewBikeRuntime(cfg, nil)
		if err != nil {
			return nil, nil, err
		}
		return rt.Store, rt.Close, nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
