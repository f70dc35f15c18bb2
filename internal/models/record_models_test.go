package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_EmptyFieldsAreOmitted(t *testing.T) {
	sub := Submission{
		ID:         "abc",
		Subreddit:  "golang",
		CreatedUTC: 1700000000,
		EtlTS:      1700000100,
	}

	raw, err := json.Marshal(sub)
	require.NoError(t, err)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(raw, &stored))

	assert.NotContains(t, stored, "title")
	assert.NotContains(t, stored, "author_id")
	assert.NotContains(t, stored, "url")
	assert.NotContains(t, stored, "over_18")
	assert.NotContains(t, stored, "flair")
	assert.Contains(t, stored, "submission_id")
	assert.Contains(t, stored, "etl_ts")
}

func TestComment_EmptyFieldsAreOmittedInDocumentStore(t *testing.T) {
	comment := Comment{
		ID:        "c1",
		Subreddit: "golang",
		EtlTS:     1700000100,
	}

	item, err := attributevalue.MarshalMap(comment)
	require.NoError(t, err)

	assert.NotContains(t, item, "author_id")
	assert.NotContains(t, item, "score")
	assert.NotContains(t, item, "distinguished")
	assert.NotContains(t, item, "edited")
	assert.Contains(t, item, "comment_id")
	assert.Contains(t, item, "subreddit")
}

func TestComment_StorageRoundTripIsStable(t *testing.T) {
	comment := Comment{
		ID:               "c1",
		AuthorID:         "t2_xyz",
		AuthorCreatedUTC: 1600000000,
		Subreddit:        "golang",
		EtlTS:            1700000100,
	}

	item, err := attributevalue.MarshalMap(comment)
	require.NoError(t, err)

	var restored Comment
	require.NoError(t, attributevalue.UnmarshalMap(item, &restored))
	assert.Equal(t, comment, restored)

	again, err := attributevalue.MarshalMap(restored)
	require.NoError(t, err)
	assert.Equal(t, item, again)
}

func TestWindowForDate_DefaultsToFullDay(t *testing.T) {
	date := time.Date(2023, 11, 14, 9, 30, 0, 0, time.UTC)

	window := WindowForDate(date)

	assert.Equal(t, time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC), window.End)
}

func TestExecutionWindow_ContainsIsHalfOpen(t *testing.T) {
	window := WindowForDate(time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC))
	start := float64(window.Start.Unix())
	end := float64(window.End.Unix())

	assert.True(t, window.Contains(start))
	assert.True(t, window.Contains(end-1))
	assert.False(t, window.Contains(start-1))
	assert.False(t, window.Contains(end))
}
