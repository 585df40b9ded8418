package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "rentledger:idem:"

	// processingMarker is stored under a key while the first request is
	// still in flight. The middleware treats it as "no response yet".
	processingMarker = "processing"
)

// IdempotencyStore keeps replayable responses for mutating requests,
// keyed by the client's Idempotency-Key header. Implements
// usecase.IdempotencyStore.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// CheckAndSet reports whether the key was seen before, returning the
// stored response if so. A fresh key is claimed with a processing marker
// via SETNX so concurrent retries agree on a single winner.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	redisKey := idempotencyKeyPrefix + key

	stored, err := s.client.Get(ctx, redisKey).Bytes()
	switch {
	case err == nil:
		return true, stored, nil
	case !errors.Is(err, redis.Nil):
		return false, nil, err
	}

	if response != nil {
		if err := s.client.Set(ctx, redisKey, response, ttl).Err(); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	claimed, err := s.client.SetNX(ctx, redisKey, processingMarker, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !claimed {
		// Lost the race; whatever the winner wrote is the answer.
		stored, err := s.client.Get(ctx, redisKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, nil, err
		}
		return true, stored, nil
	}

	return false, nil, nil
}

// Update replaces the processing marker with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, idempotencyKeyPrefix+key, response, ttl).Err()
}
