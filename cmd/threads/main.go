package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spacesedan/redditlake/config"
	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/db"
	"github.com/spacesedan/redditlake/internal/extractor"
	"github.com/spacesedan/redditlake/internal/logging"
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
	executionDate := resolveExecutionDate()

	listPath := os.Getenv("COMMUNITY_LIST_PATH")
	if listPath == "" {
		listPath = "data/subreddit_public.csv"
	}
	limit, err := strconv.Atoi(os.Getenv("NUM_COMMUNITIES"))
	if err != nil {
		limit = 25
	}

	communities, err := extractor.TargetCommunities(listPath, limit)
	if err != nil {
		slog.Error("[Threads] Failed to load target communities",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := db.NewDocumentStore(clients.GetDynamoDBClient())
	sink := staging.NewSink(store, nil)
	threads := extractor.NewThreadExtractor(clients.GetRedditClient(), clients.NewFetcher())

	for _, community := range communities {
		slog.Info("[Threads] Fetching data for community",
			slog.String("subreddit", community))

		submissions, err := threads.ExtractThreads(ctx, community, executionDate)
		if err != nil {
			slog.Warn("[Threads] Skipping community after failed extraction",
				slog.String("subreddit", community),
				slog.String("error", err.Error()))
			continue
		}

		if err := sink.PersistSubmissions(ctx, submissions); err != nil {
			slog.Error("[Threads] Persistence failed, aborting run",
				slog.String("subreddit", community),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slog.Info("[Threads] Data load successful",
		slog.String("date", executionDate.Format("2006-01-02")))
}

// resolveExecutionDate returns the UTC midnight of EXECUTION_DATE
// (YYYY-MM-DD), defaulting to today.
func resolveExecutionDate() time.Time {
	if raw := os.Getenv("EXECUTION_DATE"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err == nil {
			return date.UTC()
		}
		slog.Warn("[Threads] Invalid EXECUTION_DATE, using today",
			slog.String("value", raw))
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
