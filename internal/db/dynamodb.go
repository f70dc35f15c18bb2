package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/redditlake/internal/models"
)

const (
	SUBMISSIONS_TABLE_NAME = "submissions"
	COMMENTS_TABLE_NAME    = "comments"
)

// DocumentStore is the system of record for raw Submission and Comment
// records. The client is injected and scoped to a run; there is no
// process-wide handle.
type DocumentStore struct {
	client *dynamodb.Client
}

func NewDocumentStore(client *dynamodb.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

// InsertSubmissions appends submission records to the submissions
// collection. No dedup happens here; re-running an execution date writes the
// same records again.
func (s *DocumentStore) InsertSubmissions(ctx context.Context, submissions []models.Submission) error {
	items := make([]map[string]types.AttributeValue, 0, len(submissions))
	for _, sub := range submissions {
		item, err := attributevalue.MarshalMap(sub)
		if err != nil {
			return fmt.Errorf("[DocumentStore] Failed to marshal submission %s: %w", sub.ID, err)
		}
		items = append(items, item)
	}
	return s.batchWrite(ctx, SUBMISSIONS_TABLE_NAME, items)
}

// InsertComments appends comment records to the comments collection.
func (s *DocumentStore) InsertComments(ctx context.Context, comments []models.Comment) error {
	items := make([]map[string]types.AttributeValue, 0, len(comments))
	for _, comment := range comments {
		item, err := attributevalue.MarshalMap(comment)
		if err != nil {
			return fmt.Errorf("[DocumentStore] Failed to marshal comment %s: %w", comment.ID, err)
		}
		items = append(items, item)
	}
	return s.batchWrite(ctx, COMMENTS_TABLE_NAME, items)
}

func (s *DocumentStore) batchWrite(ctx context.Context, table string, items []map[string]types.AttributeValue) error {
	const maxBatchSize = 25
	for i := 0; i < len(items); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DocumentStore] context canceled")
			return ctx.Err()
		default:
		}

		end := i + maxBatchSize
		if end > len(items) {
			end = len(items)
		}

		writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
		for _, item := range items[i:end] {
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{table: writeRequests},
		})
		if err != nil {
			return fmt.Errorf("[DocumentStore] Failed to batch write to %s: %w", table, err)
		}

		retryCount := 0
		backoff := 500 * time.Millisecond
		for len(out.UnprocessedItems) > 0 && retryCount < 3 {
			time.Sleep(backoff)
			backoff *= 2

			slog.Warn("[DocumentStore] Retrying unprocessed items...",
				slog.Int("attempt", retryCount+1),
				slog.Int("remaining", len(out.UnprocessedItems[table])))

			out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[DocumentStore] Failed to retry batch write to %s: %w", table, err)
			}
			retryCount++
		}

		if len(out.UnprocessedItems) > 0 {
			return fmt.Errorf("[DocumentStore] %d items not written to %s after retries",
				len(out.UnprocessedItems[table]), table)
		}
	}
	return nil
}

// DistinctSubmissionIDs projects the distinct submission ids already staged
// for a subreddit. Comment extraction discovers its work units through this
// query, which is what orders comment runs after thread runs.
func (s *DocumentStore) DistinctSubmissionIDs(ctx context.Context, subreddit string) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(SUBMISSIONS_TABLE_NAME),
		FilterExpression:     aws.String("subreddit = :subreddit"),
		ProjectionExpression: aws.String("submission_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":subreddit": &types.AttributeValueMemberS{Value: subreddit},
		},
	}

	seen := make(map[string]struct{})
	var ids []string

	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DocumentStore] Scan for submission ids failed: %w", err)
		}

		var page []struct {
			SubmissionID string `dynamodbav:"submission_id"`
		}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("[DocumentStore] Failed to unmarshal submission id page: %w", err)
		}

		for _, row := range page {
			if _, ok := seen[row.SubmissionID]; ok {
				continue
			}
			seen[row.SubmissionID] = struct{}{}
			ids = append(ids, row.SubmissionID)
		}
	}

	slog.Info("[DocumentStore] Found staged submissions",
		slog.String("subreddit", subreddit),
		slog.Int("count", len(ids)))
	return ids, nil
}

// CommentsByAuthorWindow returns staged comments whose author account
// creation timestamp falls in [window.Start, window.End).
func (s *DocumentStore) CommentsByAuthorWindow(ctx context.Context, window models.ExecutionWindow) ([]models.Comment, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(COMMENTS_TABLE_NAME),
		FilterExpression: aws.String("author_created_utc >= :start AND author_created_utc < :end"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":start": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", window.Start.Unix())},
			":end":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", window.End.Unix())},
		},
	}

	var comments []models.Comment
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DocumentStore] Scan for comments failed: %w", err)
		}

		var page []models.Comment
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("[DocumentStore] Failed to unmarshal comment page: %w", err)
		}
		comments = append(comments, page...)
	}

	slog.Info("[DocumentStore] Retrieved comments for window",
		slog.Time("start", window.Start),
		slog.Time("end", window.End),
		slog.Int("count", len(comments)))
	return comments, nil
}
