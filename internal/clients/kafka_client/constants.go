package kafka_client

import "time"

const (
	KAFKA_TOPIC_ACTIVITY_EVENTS = "reddit-activity-events"     // per-submission activity from target subreddits
	KAFKA_TOPIC_VIOLATIONS      = "reddit-activity-violations" // over-18 submissions found in non-over-18 subreddits
)

const (
	BATCH_SIZE    = 50
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
)
