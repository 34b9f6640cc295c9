package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookline/models"
	"bookline/utils"

	"github.com/go-redis/redis/v8"
)

// RedisSessionRepo stores JSON snapshots of booking records in Redis.
type RedisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepo(client *redis.Client, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{client: client, ttl: ttl}
}

func sessionKey(callerID string) string {
	return utils.SessionKeyPrefix + callerID
}

func (r *RedisSessionRepo) Load(ctx context.Context, callerID string) (*models.BookingRecord, error) {
	data, err := r.client.Get(ctx, sessionKey(callerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session for %s: %w", callerID, err)
	}
	var rec models.BookingRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse session snapshot for %s: %w", callerID, err)
	}
	return &rec, nil
}

func (r *RedisSessionRepo) Save(ctx context.Context, rec *models.BookingRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(rec.CallerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session for %s: %w", rec.CallerID, err)
	}
	return nil
}

func (r *RedisSessionRepo) Delete(ctx context.Context, callerID string) error {
	if err := r.client.Del(ctx, sessionKey(callerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", callerID, err)
	}
	return nil
}
