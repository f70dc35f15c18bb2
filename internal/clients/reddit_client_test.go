package clients

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/redditlake/internal/models"
)

func TestFlattenComments_IncludesNestedReplies(t *testing.T) {
	nested := models.RedditListing{
		Kind: "Listing",
		Data: models.RedditListingData{
			Children: []models.RedditChild{
				{Kind: "t1", Data: models.RedditChildData{ID: "child"}},
			},
		},
	}
	raw, err := json.Marshal(nested)
	require.NoError(t, err)

	flat := FlattenComments([]models.RedditChild{
		{Kind: "t1", Data: models.RedditChildData{ID: "parent", Replies: raw}},
		{Kind: "t1", Data: models.RedditChildData{ID: "sibling"}},
	})

	require.Len(t, flat, 3)
	assert.Equal(t, "parent", flat[0].Data.ID)
	assert.Equal(t, "child", flat[1].Data.ID)
	assert.Equal(t, "sibling", flat[2].Data.ID)
}

func TestFlattenComments_EmptyRepliesString(t *testing.T) {
	// Reddit sends replies as "" when a comment has none.
	flat := FlattenComments([]models.RedditChild{
		{Kind: "t1", Data: models.RedditChildData{ID: "leaf", Replies: json.RawMessage(`""`)}},
	})

	require.Len(t, flat, 1)
	assert.Equal(t, "leaf", flat[0].Data.ID)
}

func TestFlattenComments_KeepsPlaceholderNodes(t *testing.T) {
	flat := FlattenComments([]models.RedditChild{
		{Kind: models.MoreComments},
		{Kind: "t1", Data: models.RedditChildData{ID: "real"}},
	})

	require.Len(t, flat, 2)
	assert.Equal(t, models.MoreComments, flat[0].Kind)
}
