// Command server serves the meal journal over HTTP.
//
// Configuration comes from config.yaml (CONFIG_PATH), an optional .env file
// (ENV_FILE) and environment variables. The process stops gracefully on
// SIGINT or SIGTERM.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/foodtracker-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		slog.Error("application failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
