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

// The comments job runs after the threads job for the same execution date:
// it discovers its work by reading staged submission ids back from the
// document store.
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
		slog.Error("[Comments] Failed to load target communities",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := db.NewDocumentStore(clients.GetDynamoDBClient())
	sink := staging.NewSink(store, nil)
	comments := extractor.NewCommentExtractor(
		clients.GetRedditClient(), store, sink, clients.NewFetcher())

	if err := comments.RunForCommunities(ctx, communities, executionDate); err != nil {
		slog.Error("[Comments] Run failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Comments] Data load successful",
		slog.String("date", executionDate.Format("2006-01-02")))
}

func resolveExecutionDate() time.Time {
	if raw := os.Getenv("EXECUTION_DATE"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err == nil {
			return date.UTC()
		}
		slog.Warn("[Comments] Invalid EXECUTION_DATE, using today",
			slog.String("value", raw))
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
