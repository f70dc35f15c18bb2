package aggregator

import (
	"context"
	"log/slog"

	"github.com/spacesedan/redditlake/internal/models"
	"github.com/spacesedan/redditlake/internal/staging"
)

type commentSource interface {
	CommentsByAuthorWindow(ctx context.Context, window models.ExecutionWindow) ([]models.Comment, error)
}

type relationalLoader interface {
	LoadRelational(ctx context.Context, records []map[string]any, fields []string, table string) error
}

// UserAggregator projects the distinct comment authors whose accounts were
// created inside an execution window and append-loads them into the user
// staging table.
type UserAggregator struct {
	source commentSource
	sink   relationalLoader
}

func NewUserAggregator(source commentSource, sink relationalLoader) *UserAggregator {
	return &UserAggregator{source: source, sink: sink}
}

// AggregateUsers returns one record per distinct author in the window.
func (u *UserAggregator) AggregateUsers(ctx context.Context, window models.ExecutionWindow) ([]models.AggregatedUser, error) {
	comments, err := u.source.CommentsByAuthorWindow(ctx, window)
	if err != nil {
		return nil, err
	}
	return ProjectDistinctAuthors(comments, window), nil
}

// LoadUsers aggregates the window and loads the result into
// dim_all_users_stg.
func (u *UserAggregator) LoadUsers(ctx context.Context, window models.ExecutionWindow) error {
	users, err := u.AggregateUsers(ctx, window)
	if err != nil {
		return err
	}

	records := make([]map[string]any, 0, len(users))
	for _, user := range users {
		records = append(records, map[string]any{
			"author_id": user.AuthorID,
			"etl_ts":    user.EtlTS,
		})
	}

	if err := u.sink.LoadRelational(ctx, records, []string{"author_id", "etl_ts"}, staging.USERS_STAGING_TABLE); err != nil {
		return err
	}

	slog.Info("[UserAggregator] Loaded distinct authors",
		slog.Time("window_start", window.Start),
		slog.Time("window_end", window.End),
		slog.Int("count", len(users)))
	return nil
}

// ProjectDistinctAuthors keeps the first record per author id whose account
// creation timestamp lies in [window.Start, window.End).
func ProjectDistinctAuthors(comments []models.Comment, window models.ExecutionWindow) []models.AggregatedUser {
	seen := make(map[string]struct{})
	var users []models.AggregatedUser

	for _, comment := range comments {
		if comment.AuthorID == "" || !window.Contains(comment.AuthorCreatedUTC) {
			continue
		}
		if _, ok := seen[comment.AuthorID]; ok {
			continue
		}
		seen[comment.AuthorID] = struct{}{}
		users = append(users, models.AggregatedUser{
			AuthorID: comment.AuthorID,
			EtlTS:    comment.EtlTS,
		})
	}

	return users
}
