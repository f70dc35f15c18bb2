package streams

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/clients/kafka_client"
	"github.com/spacesedan/redditlake/internal/models"
)

const ACTIVITY_LISTING_LIMIT = 10

type hotListingAPI interface {
	FetchHotSubmissions(ctx context.Context, subreddit string, limit int) ([]models.RedditChild, error)
}

// PublishActivityEvents samples the hot listing of each target community and
// produces one activity event per submission onto the source topic. The
// violation flag is left unset here; the consumer side computes it.
func PublishActivityEvents(ctx context.Context, api hotListingAPI, fetcher *clients.Fetcher, communities []string) {
	for _, community := range communities {
		select {
		case <-ctx.Done():
			slog.Warn("[ActivityEvents] Context cancelled, stopping producer")
			return
		default:
		}

		children, err := clients.Fetch(ctx, fetcher, func() ([]models.RedditChild, error) {
			return api.FetchHotSubmissions(ctx, community, ACTIVITY_LISTING_LIMIT)
		})
		if err != nil {
			slog.Warn("[ActivityEvents] Skipping community after failed fetch",
				slog.String("subreddit", community),
				slog.String("error", err.Error()))
			continue
		}

		published := 0
		for _, child := range children {
			if child.Data.ID == "" {
				continue
			}

			event := models.ActivityEvent{
				Subreddit:    community,
				ThreadID:     child.Data.ID,
				AuthorID:     child.Data.AuthorFullname,
				CreationDate: time.Unix(int64(child.Data.CreatedUTC), 0).UTC().Format("2006-01-02"),
				URL:          child.Data.URL,
			}

			if err := kafka_client.PublishEvent(kafka_client.KAFKA_TOPIC_ACTIVITY_EVENTS, event.ThreadID, event); err != nil {
				slog.Warn("[ActivityEvents] Failed to publish event",
					slog.String("thread_id", event.ThreadID),
					slog.String("error", err.Error()))
				continue
			}
			published++
		}

		slog.Info("[ActivityEvents] Published activity events",
			slog.String("subreddit", community),
			slog.Int("count", published))
	}
}
