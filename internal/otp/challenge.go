// Package otp stores pending phone verification challenges in redis.
// Each phone number has a single key written with an expiry, so a second
// request replaces the first and stale challenges disappear on their own.
package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultTTL is how long a challenge stays valid.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "otp:challenge:"

// ErrNoChallenge is returned when no live challenge exists for a phone number.
var ErrNoChallenge = errors.New("otp: no challenge")

// Challenge is an outstanding verification attempt for one phone number.
type Challenge struct {
	PhoneNumber string    `json:"phone_number"`
	RequestID   string    `json:"request_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChallengeStore persists at most one challenge per phone number.
type ChallengeStore interface {
	Save(ctx context.Context, phone, requestID string) (*Challenge, error)
	Get(ctx context.Context, phone string) (*Challenge, error)
	Delete(ctx context.Context, phone string) error
}

// RedisStore is a ChallengeStore backed by redis SET ... EX.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a RedisStore. A non-positive ttl uses DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

// Key returns the redis key holding the challenge for phone.
func Key(phone string) string {
	return keyPrefix + phone
}

// Save writes the challenge for phone, replacing any existing one and
// resetting its expiry.
func (s *RedisStore) Save(ctx context.Context, phone, requestID string) (*Challenge, error) {
	c := &Challenge{
		PhoneNumber: phone,
		RequestID:   requestID,
		CreatedAt:   s.now().UTC(),
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode challenge: %w", err)
	}
	if err := s.client.Set(ctx, Key(phone), string(data), s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}
	return c, nil
}

// Get returns the live challenge for phone or ErrNoChallenge.
func (s *RedisStore) Get(ctx context.Context, phone string) (*Challenge, error) {
	raw, err := s.client.Get(ctx, Key(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoChallenge
	}
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	var c Challenge
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &c, nil
}

// Delete removes the challenge for phone. Deleting a missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, Key(phone)).Err(); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}
