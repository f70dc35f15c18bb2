package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/models"
)

type fakeHotListing struct {
	children []models.RedditChild
	err      error
	calls    int
}

func (f *fakeHotListing) FetchHotSubmissions(ctx context.Context, subreddit string, limit int) ([]models.RedditChild, error) {
	f.calls++
	return f.children, f.err
}

func noSleepFetcher() *clients.Fetcher {
	f := clients.NewFetcher()
	f.Delay = 0
	return f
}

func submissionChild(id string, createdUTC float64) models.RedditChild {
	return models.RedditChild{
		Kind: "t3",
		Data: models.RedditChildData{
			ID:             id,
			Title:          "a title",
			Author:         "someone",
			AuthorFullname: "t2_abc",
			CreatedUTC:     createdUTC,
			URL:            "https://example.com",
			NumComments:    3,
		},
	}
}

func TestRankCommunities_TopBySubscribers(t *testing.T) {
	communities := []models.Community{
		{Name: "a", Subscribers: 500},
		{Name: "b", Subscribers: 900},
		{Name: "c", Subscribers: 100},
	}

	assert.Equal(t, []string{"b", "a"}, RankCommunities(communities, 2))
}

func TestRankCommunities_TiesKeepListOrder(t *testing.T) {
	communities := []models.Community{
		{Name: "first", Subscribers: 100},
		{Name: "second", Subscribers: 100},
		{Name: "third", Subscribers: 100},
	}

	assert.Equal(t, []string{"first", "second", "third"}, RankCommunities(communities, 5))
}

func TestExtractThreads_KeepsOnlyExecutionDate(t *testing.T) {
	date := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)
	sameDay := float64(date.Add(10 * time.Hour).Unix())
	dayBefore := float64(date.Add(-time.Hour).Unix())

	api := &fakeHotListing{children: []models.RedditChild{
		submissionChild("today", sameDay),
		submissionChild("yesterday", dayBefore),
	}}
	threads := NewThreadExtractor(api, noSleepFetcher())

	submissions, err := threads.ExtractThreads(context.Background(), "golang", date)

	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "today", submissions[0].ID)
	assert.Equal(t, "golang", submissions[0].Subreddit)
	assert.NotZero(t, submissions[0].EtlTS)
}

func TestExtractThreads_SkipsUnreadableItems(t *testing.T) {
	date := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)
	sameDay := float64(date.Add(time.Hour).Unix())

	api := &fakeHotListing{children: []models.RedditChild{
		{Kind: "t3", Data: models.RedditChildData{CreatedUTC: sameDay}}, // no id
		submissionChild("ok", sameDay),
	}}
	threads := NewThreadExtractor(api, noSleepFetcher())

	submissions, err := threads.ExtractThreads(context.Background(), "golang", date)

	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "ok", submissions[0].ID)
}

func TestExtractThreads_RateLimitRetriedThenSurfaced(t *testing.T) {
	api := &fakeHotListing{err: clients.ErrRateLimited}
	threads := NewThreadExtractor(api, noSleepFetcher())

	_, err := threads.ExtractThreads(context.Background(), "golang", time.Now().UTC())

	assert.ErrorIs(t, err, clients.ErrRateLimited)
	assert.Equal(t, 3, api.calls)
}

func TestNormalizeSubmission_Idempotent(t *testing.T) {
	data := models.RedditChildData{
		ID:         "abc",
		Title:      "a title",
		CreatedUTC: 1700000000,
	}

	once := NormalizeSubmission(data, "golang", 1700000100)
	twice := NormalizeSubmission(models.RedditChildData{
		ID:         once.ID,
		Title:      once.Title,
		CreatedUTC: once.CreatedUTC,
	}, once.Subreddit, once.EtlTS)

	assert.Equal(t, once, twice)
}

func TestSameUTCDay(t *testing.T) {
	date := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameUTCDay(float64(date.Unix()), date))
	assert.True(t, SameUTCDay(float64(date.Add(23*time.Hour+59*time.Minute).Unix()), date))
	assert.False(t, SameUTCDay(float64(date.Add(-time.Second).Unix()), date))
	assert.False(t, SameUTCDay(float64(date.Add(24*time.Hour).Unix()), date))
}
