package clients

import "time"

const (
	MAX_RETRIES = 3
	RETRY_DELAY = 5 * time.Second
	USER_AGENT  = "redditlake-client/1.0 (+https://github.com/spacesedan/redditlake)"
)
