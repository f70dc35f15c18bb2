package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/redditlake/internal/models"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"
)

// ErrRateLimited marks an upstream 429 so callers can retry it separately
// from every other failure mode.
var ErrRateLimited = errors.New("reddit: too many requests")

var (
	redditClientInstance *RedditClient
	redditClientOnce     sync.Once
)

type RedditClient struct {
	Config *clientcredentials.Config
	Client *http.Client
	mu     sync.Mutex
}

func GetRedditClient() *RedditClient {
	redditClientOnce.Do(func() {
		oauthConf := &clientcredentials.Config{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			TokenURL:     REDDIT_AUTH_URL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		redditClientInstance = &RedditClient{
			Config: oauthConf,
			Client: oauthConf.Client(context.Background()),
		}
	})

	return redditClientInstance
}

func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.Client = rc.Config.Client(context.Background())
}

// FetchHotSubmissions returns up to limit entries from a subreddit's hot
// listing. Hot is a size-bounded popularity window, so same-day content that
// scrolled out of it is not visible here.
func (rc *RedditClient) FetchHotSubmissions(ctx context.Context, subreddit string, limit int) ([]models.RedditChild, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot", REDDIT_API_URL, url.PathEscape(subreddit))
	body, err := rc.get(ctx, endpoint, url.Values{"limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}

	var listing models.RedditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to decode hot listing for %s: %w", subreddit, err)
	}
	return listing.Data.Children, nil
}

// FetchCommentTree returns the flattened comment tree for a submission,
// nested replies included. Collapsed placeholder nodes keep their "more"
// kind so callers can tell them apart from real comments.
func (rc *RedditClient) FetchCommentTree(ctx context.Context, submissionID string) ([]models.RedditChild, error) {
	endpoint := fmt.Sprintf("%s/comments/%s", REDDIT_API_URL, url.PathEscape(submissionID))
	body, err := rc.get(ctx, endpoint, url.Values{"limit": {"500"}})
	if err != nil {
		return nil, err
	}

	// The comments endpoint responds with two listings: the submission
	// itself, then its top-level comments.
	var listings []models.RedditListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to decode comment tree for %s: %w", submissionID, err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	return FlattenComments(listings[1].Data.Children), nil
}

// FetchSubmissionInfo looks up a single submission by id.
func (rc *RedditClient) FetchSubmissionInfo(ctx context.Context, submissionID string) (models.RedditChildData, error) {
	endpoint := fmt.Sprintf("%s/api/info", REDDIT_API_URL)
	body, err := rc.get(ctx, endpoint, url.Values{"id": {"t3_" + submissionID}})
	if err != nil {
		return models.RedditChildData{}, err
	}

	var listing models.RedditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return models.RedditChildData{}, fmt.Errorf("[RedditClient] Failed to decode info for %s: %w", submissionID, err)
	}
	if len(listing.Data.Children) == 0 {
		return models.RedditChildData{}, fmt.Errorf("[RedditClient] No submission found for id %s", submissionID)
	}
	return listing.Data.Children[0].Data, nil
}

// FetchSubredditAbout returns the subreddit's metadata, including its
// over-18 marker.
func (rc *RedditClient) FetchSubredditAbout(ctx context.Context, subreddit string) (models.SubredditAboutData, error) {
	endpoint := fmt.Sprintf("%s/r/%s/about", REDDIT_API_URL, url.PathEscape(subreddit))
	body, err := rc.get(ctx, endpoint, nil)
	if err != nil {
		return models.SubredditAboutData{}, err
	}

	var about models.SubredditAbout
	if err := json.Unmarshal(body, &about); err != nil {
		return models.SubredditAboutData{}, fmt.Errorf("[RedditClient] Failed to decode about for %s: %w", subreddit, err)
	}
	return about.Data, nil
}

func (rc *RedditClient) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	parsedUrl, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	q := parsedUrl.Query()
	q.Set("raw_json", "1")
	for key, vals := range query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	parsedUrl.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedUrl.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := rc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
		rc.RefreshClient()
		return rc.get(ctx, endpoint, query)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("[RedditClient] %s: %w", parsedUrl.Path, ErrRateLimited)
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	}
	return nil, fmt.Errorf("[RedditClient] Unexpected status %d for %s", resp.StatusCode, parsedUrl.Path)
}

// FlattenComments walks a comment forest depth-first and returns every node,
// replies included, in a single slice.
func FlattenComments(children []models.RedditChild) []models.RedditChild {
	var flat []models.RedditChild
	for _, child := range children {
		flat = append(flat, child)
		if len(child.Data.Replies) == 0 {
			continue
		}

		// Replies is either an empty string or a nested listing.
		var replies models.RedditListing
		if err := json.Unmarshal(child.Data.Replies, &replies); err != nil {
			continue
		}
		flat = append(flat, FlattenComments(replies.Data.Children)...)
	}
	return flat
}
