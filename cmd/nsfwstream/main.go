package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spacesedan/redditlake/config"
	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/clients/kafka_client"
	"github.com/spacesedan/redditlake/internal/extractor"
	"github.com/spacesedan/redditlake/internal/logging"
	"github.com/spacesedan/redditlake/internal/streams"
)

// The nsfwstream process runs both sides of the realtime path: it samples
// hot listings into the activity topic on an interval and consumes that
// topic to flag over-18 submissions posted in non-over-18 communities.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := kafka_client.GetKafkaConfig()
	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}
		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	clients.InitValkey()
	defer clients.CloseValkey()

	consumer, err := kafka_client.NewConsumer(cfg, kafka_client.KAFKA_TOPIC_ACTIVITY_EVENTS)
	if err != nil {
		slog.Error("Failed to create consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer consumer.Close()

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
		slog.Error("Failed to load target communities", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fetchInterval, err := strconv.Atoi(os.Getenv("ACTIVITY_FETCH_INTERVAL"))
	if err != nil {
		fetchInterval = 300 // seconds
	}

	reddit := clients.GetRedditClient()
	fetcher := clients.NewFetcher()
	tracker := clients.GetValkeyClient()

	go streams.StartViolationConsumer(ctx, consumer, reddit, fetcher, tracker)

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(fetchInterval) * time.Second)
	defer ticker.Stop()

	streams.PublishActivityEvents(ctx, reddit, fetcher, communities)

	for {
		select {
		case <-ticker.C:
			streams.PublishActivityEvents(ctx, reddit, fetcher, communities)
		case <-stopChan:
			slog.Info("Shutting down nsfw stream gracefully...")
			cancel()
			return
		}
	}
}
