package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInsert_SecondFieldCastsEpochToDate(t *testing.T) {
	query := BuildInsert(USERS_STAGING_TABLE, []string{"author_id", "etl_ts"})

	assert.Equal(t,
		"INSERT INTO dim_all_users_stg (author_id, etl_ts) VALUES ($1, TO_TIMESTAMP($2)::date)",
		query)
}

func TestBuildInsert_WiderFieldSets(t *testing.T) {
	query := BuildInsert("dim_threads_stg", []string{"submission_id", "etl_ts", "subreddit"})

	assert.Equal(t,
		"INSERT INTO dim_threads_stg (submission_id, etl_ts, subreddit) VALUES ($1, TO_TIMESTAMP($2)::date, $3)",
		query)
}

func TestRecordArgs_FollowFieldOrder(t *testing.T) {
	record := map[string]any{
		"author_id": "u1",
		"etl_ts":    float64(1700000000),
	}

	args := RecordArgs(record, []string{"author_id", "etl_ts"})

	assert.Equal(t, []any{"u1", float64(1700000000)}, args)
}

func TestRecordArgs_MissingFieldYieldsNil(t *testing.T) {
	args := RecordArgs(map[string]any{"author_id": "u1"}, []string{"author_id", "etl_ts"})

	assert.Equal(t, []any{"u1", nil}, args)
}
