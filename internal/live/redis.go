package live

import (
	"context"
	"encoding/json"
	"fmt"

	"cricket-score/internal/constants"

	"github.com/redis/go-redis/v9"
)

// Sink is a best-effort secondary destination for published messages.
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// RedisSink appends every message to a capped redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client, stream: constants.MatchStream}
}

// DialRedis parses url and checks the server answers before returning.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: constants.MatchStreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":      string(msg.Type),
			"match_id":  msg.MatchID,
			"data":      string(data),
			"timestamp": msg.Timestamp.Unix(),
		},
	}).Err()
}
