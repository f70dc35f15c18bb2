package streams

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/clients/kafka_client"
	"github.com/spacesedan/redditlake/internal/models"
	"github.com/spacesedan/redditlake/internal/utils"
)

type redditStatusAPI interface {
	FetchSubmissionInfo(ctx context.Context, submissionID string) (models.RedditChildData, error)
	FetchSubredditAbout(ctx context.Context, subreddit string) (models.SubredditAboutData, error)
}

type flaggedTracker interface {
	IsFlagged(ctx context.Context, threadID string) bool
	MarkFlagged(ctx context.Context, threadID string) error
}

var violationBuffer = utils.NewBatchBuffer[models.ActivityEvent]()

// StartViolationConsumer reads activity events and flags over-18 submissions
// that appear in communities not marked over-18. Flagged events are buffered
// and published to the sink topic in batches.
func StartViolationConsumer(ctx context.Context, consumer *kafka.Consumer, api redditStatusAPI, fetcher *clients.Fetcher, tracker flaggedTracker) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)

	slog.Info("[NSFWFlagger] Listening for activity events...")

	ticker := time.NewTicker(kafka_client.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[NSFWFlagger] Stopping consumer...")
			flushViolations(ctx, tracker)
			return
		case <-ticker.C:
			flushViolations(ctx, tracker)
		default:
			msg, err := iterator.Next()
			if err != nil {
				slog.Warn("[NSFWFlagger] Iterator stopped",
					slog.String("error", err.Error()))
				return
			}

			var event models.ActivityEvent
			if err := utils.DeserializeFromJSON(msg.Value, &event); err != nil {
				continue
			}

			if tracker.IsFlagged(ctx, event.ThreadID) {
				continue
			}

			violation, err := EvaluateEvent(ctx, api, fetcher, event)
			if err != nil {
				slog.Warn("[NSFWFlagger] Skipping event after failed status lookup",
					slog.String("thread_id", event.ThreadID),
					slog.String("error", err.Error()))
				continue
			}

			if violation {
				event.IsViolation = true
				if violationBuffer.Add(event) >= kafka_client.BATCH_SIZE {
					flushViolations(ctx, tracker)
				}
			}

			kafka_client.CommitMessage(consumer, msg)
		}
	}
}

// EvaluateEvent reports whether the event's submission is over-18 while its
// subreddit is not.
func EvaluateEvent(ctx context.Context, api redditStatusAPI, fetcher *clients.Fetcher, event models.ActivityEvent) (bool, error) {
	submission, err := clients.Fetch(ctx, fetcher, func() (models.RedditChildData, error) {
		return api.FetchSubmissionInfo(ctx, event.ThreadID)
	})
	if err != nil {
		return false, err
	}
	if !submission.Over18 {
		return false, nil
	}

	about, err := clients.Fetch(ctx, fetcher, func() (models.SubredditAboutData, error) {
		return api.FetchSubredditAbout(ctx, event.Subreddit)
	})
	if err != nil {
		return false, err
	}

	return !about.Over18, nil
}

func flushViolations(ctx context.Context, tracker flaggedTracker) {
	batch := violationBuffer.GetAndClear()
	if batch == nil {
		return
	}

	for _, event := range batch {
		if err := kafka_client.PublishEvent(kafka_client.KAFKA_TOPIC_VIOLATIONS, event.ThreadID, event); err != nil {
			slog.Warn("[NSFWFlagger] Failed to publish violation",
				slog.String("thread_id", event.ThreadID),
				slog.String("error", err.Error()))
			continue
		}

		if err := tracker.MarkFlagged(ctx, event.ThreadID); err != nil {
			slog.Warn("[NSFWFlagger] Failed to mark thread as flagged",
				slog.String("thread_id", event.ThreadID),
				slog.String("error", err.Error()))
		}
	}

	slog.Info("[NSFWFlagger] Flushed violations", slog.Int("count", len(batch)))
}
