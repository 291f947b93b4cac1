package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAlerts stores pending alerts in a Redis list per session id.
type RedisAlerts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAlerts(client *redis.Client, ttl time.Duration) *RedisAlerts {
	return &RedisAlerts{client: client, ttl: ttl}
}

func alertKey(sessionID string) string {
	return fmt.Sprintf("alerts:%s", sessionID)
}

func (s *RedisAlerts) Save(ctx context.Context, sessionID string, alert Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	key := alertKey(sessionID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisAlerts) Drain(ctx context.Context, sessionID string) ([]Alert, error) {
	key := alertKey(sessionID)

	pipe := s.client.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	raw, err := items.Result()
	if err != nil {
		return nil, err
	}

	alerts := []Alert{}
	for _, item := range raw {
		var a Alert
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
