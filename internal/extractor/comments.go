package extractor

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/models"
)

type commentTreeAPI interface {
	FetchCommentTree(ctx context.Context, submissionID string) ([]models.RedditChild, error)
}

// submissionSource lists the distinct submission ids already staged for a
// subreddit. Extraction discovers work through it, which is why comment runs
// depend on thread runs having populated the document store first.
type submissionSource interface {
	DistinctSubmissionIDs(ctx context.Context, subreddit string) ([]string, error)
}

type commentSink interface {
	PersistComments(ctx context.Context, comments []models.Comment) error
}

// CommentExtractor pulls same-day comments for previously staged
// submissions.
type CommentExtractor struct {
	api     commentTreeAPI
	source  submissionSource
	sink    commentSink
	fetcher *clients.Fetcher
}

func NewCommentExtractor(api commentTreeAPI, source submissionSource, sink commentSink, fetcher *clients.Fetcher) *CommentExtractor {
	return &CommentExtractor{api: api, source: source, sink: sink, fetcher: fetcher}
}

// ExtractComments fetches the flattened comment tree for one submission and
// returns normalized comments created on the execution date. A submission
// with no comments yields an empty slice, not an error. Unreadable nodes are
// skipped with a log line and never abort the thread.
func (c *CommentExtractor) ExtractComments(ctx context.Context, submissionID, subreddit string, executionDate time.Time) ([]models.Comment, error) {
	children, err := clients.Fetch(ctx, c.fetcher, func() ([]models.RedditChild, error) {
		return c.api.FetchCommentTree(ctx, submissionID)
	})
	if err != nil {
		return nil, err
	}

	comments := []models.Comment{}
	for _, child := range children {
		if child.Kind == models.MoreComments {
			slog.Info("[CommentExtractor] Unable to read collapsed comment",
				slog.String("thread_id", submissionID))
			continue
		}
		if child.Data.ID == "" {
			slog.Info("[CommentExtractor] Skipping unreadable comment",
				slog.String("thread_id", submissionID))
			continue
		}
		if !SameUTCDay(child.Data.CreatedUTC, executionDate) {
			continue
		}

		comments = append(comments,
			NormalizeComment(child.Data, subreddit, float64(time.Now().Unix())))
	}

	slog.Info("[CommentExtractor] Extracted comments",
		slog.String("subreddit", subreddit),
		slog.String("thread_id", submissionID),
		slog.Int("count", len(comments)))
	return comments, nil
}

// RunForCommunities extracts and persists comments for every staged
// submission of every community. A failed thread is skipped so the rest of
// the run continues.
func (c *CommentExtractor) RunForCommunities(ctx context.Context, communities []string, executionDate time.Time) error {
	for _, community := range communities {
		ids, err := c.source.DistinctSubmissionIDs(ctx, community)
		if err != nil {
			return err
		}

		for _, id := range ids {
			comments, err := c.ExtractComments(ctx, id, community, executionDate)
			if err != nil {
				slog.Warn("[CommentExtractor] Skipping thread after failed extraction",
					slog.String("thread_id", id),
					slog.String("error", err.Error()))
				continue
			}
			if len(comments) == 0 {
				continue
			}

			if err := c.sink.PersistComments(ctx, comments); err != nil {
				return err
			}
		}
	}
	return nil
}

// NormalizeComment converts a comment node into the canonical record,
// omitting empty fields the same way submissions do.
func NormalizeComment(data models.RedditChildData, subreddit string, etlTS float64) models.Comment {
	edited := 0.0
	if f, ok := data.Edited.(float64); ok {
		edited = f
	}

	return models.Comment{
		ID:               data.ID,
		AuthorID:         data.AuthorFullname,
		AuthorName:       data.Author,
		Score:            data.Score,
		CreatedUTC:       data.CreatedUTC,
		AuthorCreatedUTC: data.AuthorCreated,
		IsSubmitter:      data.IsSubmitter,
		Distinguished:    data.Distinguished,
		Edited:           edited,
		ReplyCount:       replyCount(data.Replies),
		Subreddit:        subreddit,
		EtlTS:            etlTS,
	}
}

func replyCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var replies models.RedditListing
	if err := json.Unmarshal(raw, &replies); err != nil {
		return 0
	}
	return len(replies.Data.Children)
}
