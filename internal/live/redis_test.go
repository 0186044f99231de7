package live

import (
	"context"
	"os"
	"testing"

	"cricket-score/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSinkAppendsToStream(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := DialRedis(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	before, err := client.XLen(ctx, constants.MatchStream).Result()
	require.NoError(t, err)

	sink := NewRedisSink(client)
	require.NoError(t, sink.Send(ctx, NewMessage(TypeStateUpdate, "m-redis", map[string]int{"runs": 1})))

	entries, err := client.XRevRangeN(ctx, constants.MatchStream, "+", "-", 1).Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "m-redis", entries[0].Values["match_id"])
	assert.Equal(t, string(TypeStateUpdate), entries[0].Values["type"])

	after, err := client.XLen(ctx, constants.MatchStream).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, before, after)
}

func TestDialRedisBadURL(t *testing.T) {
	_, err := DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
