package models

import "encoding/json"

// Wire shapes for the Reddit JSON API. Listings wrap their children in a
// kind/data envelope; comment trees come back as an array of two listings
// (the submission, then its comments) with replies nested recursively.

type RedditListing struct {
	Kind string            `json:"kind"`
	Data RedditListingData `json:"data"`
}

type RedditListingData struct {
	After    string        `json:"after"`
	Children []RedditChild `json:"children"`
}

type RedditChild struct {
	Kind string          `json:"kind"`
	Data RedditChildData `json:"data"`
}

type RedditChildData struct {
	ID             string          `json:"id"`
	Subreddit      string          `json:"subreddit"`
	Title          string          `json:"title"`
	Author         string          `json:"author"`
	AuthorFullname string          `json:"author_fullname"`
	AuthorCreated  float64         `json:"author_created_utc"`
	Body           string          `json:"body"`
	CreatedUTC     float64         `json:"created_utc"`
	URL            string          `json:"url"`
	NumComments    int             `json:"num_comments"`
	Score          int             `json:"score"`
	Over18         bool            `json:"over_18"`
	LinkFlairText  string          `json:"link_flair_text"`
	IsSubmitter    bool            `json:"is_submitter"`
	Distinguished  string          `json:"distinguished"`
	Edited         any             `json:"edited"`
	Replies        json.RawMessage `json:"replies"`
}

// SubredditAbout is the envelope for /r/<name>/about.
type SubredditAbout struct {
	Kind string             `json:"kind"`
	Data SubredditAboutData `json:"data"`
}

type SubredditAboutData struct {
	DisplayName string `json:"display_name"`
	Over18      bool   `json:"over18"`
	Subscribers int    `json:"subscribers"`
}

// MoreComments is the kind reddit uses for collapsed placeholder nodes in a
// comment tree. They carry no comment body and are skipped during extraction.
const MoreComments = "more"
