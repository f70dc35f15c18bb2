package models

import "time"

// Submission is the canonical record for one subreddit thread. Fields the
// upstream API returned empty stay zero-valued and are omitted on storage, so
// readers must tolerate missing optional fields.
type Submission struct {
	ID          string  `json:"submission_id" dynamodbav:"submission_id"`
	Subreddit   string  `json:"subreddit" dynamodbav:"subreddit"`
	Title       string  `json:"title,omitempty" dynamodbav:"title,omitempty"`
	AuthorID    string  `json:"author_id,omitempty" dynamodbav:"author_id,omitempty"`
	AuthorName  string  `json:"author_name,omitempty" dynamodbav:"author_name,omitempty"`
	CreatedUTC  float64 `json:"created_utc,omitempty" dynamodbav:"created_utc,omitempty"`
	URL         string  `json:"url,omitempty" dynamodbav:"url,omitempty"`
	NumComments int     `json:"num_comments" dynamodbav:"num_comments"`
	Over18      bool    `json:"over_18,omitempty" dynamodbav:"over_18,omitempty"`
	Flair       string  `json:"flair,omitempty" dynamodbav:"flair,omitempty"`
	EtlTS       float64 `json:"etl_ts" dynamodbav:"etl_ts"`
}

// Comment is the canonical record for one comment on a thread. The owning
// submission id is not stored inline; the association is rebuilt by
// re-querying staged submissions per community.
type Comment struct {
	ID               string  `json:"comment_id" dynamodbav:"comment_id"`
	AuthorID         string  `json:"author_id,omitempty" dynamodbav:"author_id,omitempty"`
	AuthorName       string  `json:"author_name,omitempty" dynamodbav:"author_name,omitempty"`
	Score            int     `json:"score,omitempty" dynamodbav:"score,omitempty"`
	CreatedUTC       float64 `json:"created_utc,omitempty" dynamodbav:"created_utc,omitempty"`
	AuthorCreatedUTC float64 `json:"author_created_utc,omitempty" dynamodbav:"author_created_utc,omitempty"`
	IsSubmitter      bool    `json:"is_submitter,omitempty" dynamodbav:"is_submitter,omitempty"`
	Distinguished    string  `json:"distinguished,omitempty" dynamodbav:"distinguished,omitempty"`
	Edited           float64 `json:"edited,omitempty" dynamodbav:"edited,omitempty"`
	ReplyCount       int     `json:"reply_count,omitempty" dynamodbav:"reply_count,omitempty"`
	Subreddit        string  `json:"subreddit" dynamodbav:"subreddit"`
	EtlTS            float64 `json:"etl_ts" dynamodbav:"etl_ts"`
}

// AggregatedUser is one distinct comment author inside an execution window,
// the row shape loaded into dim_all_users_stg.
type AggregatedUser struct {
	AuthorID string  `json:"author_id" dynamodbav:"author_id"`
	EtlTS    float64 `json:"etl_ts" dynamodbav:"etl_ts"`
}

// Community is one entry of the ranked subreddit list.
type Community struct {
	Name        string
	Subscribers int
}

// ExecutionWindow is the half-open interval [Start, End) a run processes.
type ExecutionWindow struct {
	Start time.Time
	End   time.Time
}

// WindowForDate returns the default 24h window for an execution date,
// anchored at that date's UTC midnight.
func WindowForDate(date time.Time) ExecutionWindow {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return ExecutionWindow{Start: start, End: start.Add(24 * time.Hour)}
}

// Contains reports whether an epoch-seconds timestamp lies inside the window.
func (w ExecutionWindow) Contains(epoch float64) bool {
	return epoch >= float64(w.Start.Unix()) && epoch < float64(w.End.Unix())
}

// ActivityEvent is the per-submission record the streaming path moves through
// Kafka and joins against subreddit over-18 status.
type ActivityEvent struct {
	Subreddit    string `json:"subreddit"`
	ThreadID     string `json:"thread_id"`
	AuthorID     string `json:"author_id"`
	CreationDate string `json:"creation_date"`
	URL          string `json:"url"`
	IsViolation  bool   `json:"is_violation"`
}
