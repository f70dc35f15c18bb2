package extractor

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/models"
)

const HOT_LISTING_LIMIT = 100

// hotListingAPI is the slice of the Reddit client thread extraction needs.
type hotListingAPI interface {
	FetchHotSubmissions(ctx context.Context, subreddit string, limit int) ([]models.RedditChild, error)
}

// ThreadExtractor pulls same-day submissions out of subreddit hot listings.
// Extraction is pure: persisting the records is the caller's job.
type ThreadExtractor struct {
	api     hotListingAPI
	fetcher *clients.Fetcher
}

func NewThreadExtractor(api hotListingAPI, fetcher *clients.Fetcher) *ThreadExtractor {
	return &ThreadExtractor{api: api, fetcher: fetcher}
}

// TargetCommunities reads the ranked subreddit list (subreddit_name,
// subscribers_count columns) and returns the top limit names by subscriber
// count.
func TargetCommunities(path string, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[ThreadExtractor] Failed to open community list: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("[ThreadExtractor] Failed to parse community list: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("[ThreadExtractor] Community list %s is empty", path)
	}

	nameCol, countCol := -1, -1
	for i, col := range rows[0] {
		switch col {
		case "subreddit_name":
			nameCol = i
		case "subscribers_count":
			countCol = i
		}
	}
	if nameCol < 0 || countCol < 0 {
		return nil, fmt.Errorf("[ThreadExtractor] Community list %s is missing required columns", path)
	}

	communities := make([]models.Community, 0, len(rows)-1)
	for _, row := range rows[1:] {
		subscribers, err := strconv.Atoi(row[countCol])
		if err != nil {
			slog.Warn("[ThreadExtractor] Skipping community with bad subscriber count",
				slog.String("subreddit", row[nameCol]))
			continue
		}
		communities = append(communities, models.Community{
			Name:        row[nameCol],
			Subscribers: subscribers,
		})
	}

	return RankCommunities(communities, limit), nil
}

// RankCommunities orders communities by subscriber count descending and
// returns the top limit names. The sort is stable so ties keep the ranked
// list's original order.
func RankCommunities(communities []models.Community, limit int) []string {
	ranked := make([]models.Community, len(communities))
	copy(ranked, communities)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Subscribers > ranked[j].Subscribers
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	names := make([]string, 0, limit)
	for _, c := range ranked[:limit] {
		names = append(names, c.Name)
	}
	return names
}

// ExtractThreads fetches the community's hot listing and returns normalized
// submissions created on the execution date. Items that cannot be read are
// logged and skipped; they never abort the community.
func (t *ThreadExtractor) ExtractThreads(ctx context.Context, community string, executionDate time.Time) ([]models.Submission, error) {
	children, err := clients.Fetch(ctx, t.fetcher, func() ([]models.RedditChild, error) {
		return t.api.FetchHotSubmissions(ctx, community, HOT_LISTING_LIMIT)
	})
	if err != nil {
		return nil, err
	}

	var submissions []models.Submission
	for _, child := range children {
		if child.Data.ID == "" {
			slog.Info("[ThreadExtractor] Skipping unreadable submission",
				slog.String("subreddit", community))
			continue
		}
		if !SameUTCDay(child.Data.CreatedUTC, executionDate) {
			continue
		}

		submissions = append(submissions,
			NormalizeSubmission(child.Data, community, float64(time.Now().Unix())))
	}

	slog.Info("[ThreadExtractor] Extracted submissions",
		slog.String("subreddit", community),
		slog.String("date", executionDate.UTC().Format("2006-01-02")),
		slog.Int("count", len(submissions)))
	return submissions, nil
}

// NormalizeSubmission converts a listing entry into the canonical record.
// Empty upstream fields stay zero-valued and are dropped by omitempty on
// storage, so normalizing an already normalized record changes nothing.
func NormalizeSubmission(data models.RedditChildData, subreddit string, etlTS float64) models.Submission {
	return models.Submission{
		ID:          data.ID,
		Subreddit:   subreddit,
		Title:       data.Title,
		AuthorID:    data.AuthorFullname,
		AuthorName:  data.Author,
		CreatedUTC:  data.CreatedUTC,
		URL:         data.URL,
		NumComments: data.NumComments,
		Over18:      data.Over18,
		Flair:       data.LinkFlairText,
		EtlTS:       etlTS,
	}
}

// SameUTCDay reports whether an epoch-seconds timestamp falls on the same
// UTC calendar date as date.
func SameUTCDay(epoch float64, date time.Time) bool {
	return time.Unix(int64(epoch), 0).UTC().Format("2006-01-02") ==
		date.UTC().Format("2006-01-02")
}
