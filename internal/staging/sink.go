package staging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spacesedan/redditlake/internal/models"
)

const USERS_STAGING_TABLE = "dim_all_users_stg"

type documentWriter interface {
	InsertSubmissions(ctx context.Context, submissions []models.Submission) error
	InsertComments(ctx context.Context, comments []models.Comment) error
}

// Sink is the staging writer: raw records append to the document store,
// aggregated records append-load into relational staging tables. Both
// handles are injected and live for one run.
type Sink struct {
	docs documentWriter
	pool *pgxpool.Pool
}

func NewSink(docs documentWriter, pool *pgxpool.Pool) *Sink {
	return &Sink{docs: docs, pool: pool}
}

func (s *Sink) PersistSubmissions(ctx context.Context, submissions []models.Submission) error {
	if len(submissions) == 0 {
		return nil
	}
	if err := s.docs.InsertSubmissions(ctx, submissions); err != nil {
		return err
	}
	slog.Info("[StagingSink] Persisted submissions", slog.Int("count", len(submissions)))
	return nil
}

func (s *Sink) PersistComments(ctx context.Context, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	if err := s.docs.InsertComments(ctx, comments); err != nil {
		return err
	}
	slog.Info("[StagingSink] Persisted comments", slog.Int("count", len(comments)))
	return nil
}

// LoadRelational appends one row per record into table. The second field is
// an epoch-seconds timestamp and is cast to a date on insert. All rows run
// in a single transaction committed at the end, so a call either lands
// completely or not at all.
func (s *Sink) LoadRelational(ctx context.Context, records []map[string]any, fields []string, table string) error {
	if len(fields) < 2 {
		return fmt.Errorf("[StagingSink] Need at least two fields, got %d", len(fields))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("[StagingSink] Failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := BuildInsert(table, fields)
	for _, record := range records {
		if _, err := tx.Exec(ctx, query, RecordArgs(record, fields)...); err != nil {
			return fmt.Errorf("[StagingSink] Insert into %s failed: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("[StagingSink] Commit for %s failed: %w", table, err)
	}

	slog.Info("[StagingSink] Loaded rows into staging table",
		slog.String("table", table),
		slog.Int("count", len(records)))
	return nil
}

// BuildInsert renders the parameterized single-row insert for a field set.
// The second field's placeholder is rendered TO_TIMESTAMP($n)::date.
func BuildInsert(table string, fields []string) string {
	placeholders := make([]string, len(fields))
	for i := range fields {
		if i == 1 {
			placeholders[i] = fmt.Sprintf("TO_TIMESTAMP($%d)::date", i+1)
			continue
		}
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(fields, ", "), strings.Join(placeholders, ", "))
}

// RecordArgs projects a record onto the field order of the insert.
func RecordArgs(record map[string]any, fields []string) []any {
	args := make([]any, len(fields))
	for i, field := range fields {
		args[i] = record[field]
	}
	return args
}
