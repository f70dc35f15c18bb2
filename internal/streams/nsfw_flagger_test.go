package streams

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/redditlake/internal/clients"
	"github.com/spacesedan/redditlake/internal/models"
)

type fakeStatusAPI struct {
	submissionOver18 bool
	subredditOver18  bool
	aboutCalls       int
}

func (f *fakeStatusAPI) FetchSubmissionInfo(ctx context.Context, submissionID string) (models.RedditChildData, error) {
	return models.RedditChildData{ID: submissionID, Over18: f.submissionOver18}, nil
}

func (f *fakeStatusAPI) FetchSubredditAbout(ctx context.Context, subreddit string) (models.SubredditAboutData, error) {
	f.aboutCalls++
	return models.SubredditAboutData{DisplayName: subreddit, Over18: f.subredditOver18}, nil
}

func noSleepFetcher() *clients.Fetcher {
	f := clients.NewFetcher()
	f.Delay = 0
	return f
}

func event() models.ActivityEvent {
	return models.ActivityEvent{Subreddit: "golang", ThreadID: "t3abc"}
}

func TestEvaluateEvent_Over18PostInSafeSubredditIsViolation(t *testing.T) {
	api := &fakeStatusAPI{submissionOver18: true, subredditOver18: false}

	violation, err := EvaluateEvent(context.Background(), api, noSleepFetcher(), event())

	require.NoError(t, err)
	assert.True(t, violation)
}

func TestEvaluateEvent_Over18PostInOver18SubredditIsFine(t *testing.T) {
	api := &fakeStatusAPI{submissionOver18: true, subredditOver18: true}

	violation, err := EvaluateEvent(context.Background(), api, noSleepFetcher(), event())

	require.NoError(t, err)
	assert.False(t, violation)
}

func TestEvaluateEvent_SafePostSkipsSubredditLookup(t *testing.T) {
	api := &fakeStatusAPI{submissionOver18: false}

	violation, err := EvaluateEvent(context.Background(), api, noSleepFetcher(), event())

	require.NoError(t, err)
	assert.False(t, violation)
	assert.Zero(t, api.aboutCalls)
}
