package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spacesedan/redditlake/config"
	"github.com/spacesedan/redditlake/internal/aggregator"
	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/db"
	"github.com/spacesedan/redditlake/internal/logging"
	"github.com/spacesedan/redditlake/internal/models"
	"github.com/spacesedan/redditlake/internal/staging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx := context.Background()
	window := resolveWindow()

	dbConfigPath := os.Getenv("DB_CONFIG_PATH")
	if dbConfigPath == "" {
		dbConfigPath = "config/db_connection.yaml"
	}
	dbName := os.Getenv("POSTGRES_DB")
	if dbName == "" {
		dbName = "reddit"
	}

	profile, err := config.LoadDBProfile(dbConfigPath, dbName)
	if err != nil {
		slog.Error("[Users] Failed to load database profile",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := clients.NewPostgresPool(ctx, profile.DSN(dbName))
	if err != nil {
		slog.Error("[Users] Failed to connect to PostgreSQL",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	store := db.NewDocumentStore(clients.GetDynamoDBClient())
	sink := staging.NewSink(store, pool)
	users := aggregator.NewUserAggregator(store, sink)

	if err := users.LoadUsers(ctx, window); err != nil {
		slog.Error("[Users] Load failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Users] Data load successful",
		slog.Time("window_start", window.Start),
		slog.Time("window_end", window.End))
}

// resolveWindow builds the execution window: today's UTC day by default, or
// EXECUTION_DATE's day, with EXECUTION_WINDOW_END overriding the end for
// backfills.
func resolveWindow() models.ExecutionWindow {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := os.Getenv("EXECUTION_DATE"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			start = date.UTC()
		} else {
			slog.Warn("[Users] Invalid EXECUTION_DATE, using today",
				slog.String("value", raw))
		}
	}

	window := models.WindowForDate(start)
	if raw := os.Getenv("EXECUTION_WINDOW_END"); raw != "" {
		if end, err := time.Parse("2006-01-02", raw); err == nil {
			window.End = end.UTC()
		} else {
			slog.Warn("[Users] Invalid EXECUTION_WINDOW_END, using start + 24h",
				slog.String("value", raw))
		}
	}

	return window
}
