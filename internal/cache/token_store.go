// Package cache holds the redis-backed auth token store. Tokens are opaque
// values: issued at login, reused while still live, resolved on every
// authenticated request, and deleted at logout.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

// ErrTokenNotFound reports an unknown or already-revoked token.
var ErrTokenNotFound = errors.New("token not found")

type TokenStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

// NewTokenStore builds a token store. A zero or negative ttl means tokens
// never expire and live until revoked.
func NewTokenStore(client *redisv9.Client, ttl time.Duration) *TokenStore {
	if ttl < 0 {
		ttl = 0
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Issue returns the user's live token, creating one when none exists.
// created reports whether a new token was minted.
func (s *TokenStore) Issue(ctx context.Context, userID uint) (token string, created bool, err error) {
	userKey := s.userKey(userID)

	existing, err := s.client.Get(ctx, userKey).Result()
	if err == nil {
		// Reuse only while the reverse mapping is still live.
		live, existsErr := s.client.Exists(ctx, s.tokenKey(existing)).Result()
		if existsErr != nil {
			return "", false, fmt.Errorf("redis check token failed: %w", existsErr)
		}
		if live > 0 {
			return existing, false, nil
		}
	} else if err != redisv9.Nil {
		return "", false, fmt.Errorf("redis get user token failed: %w", err)
	}

	token = uuid.NewString()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(token), strconv.FormatUint(uint64(userID), 10), s.ttl)
	pipe.Set(ctx, userKey, token, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", false, fmt.Errorf("redis store token failed: %w", err)
	}
	return token, true, nil
}

// Resolve maps a token back to its owning user id.
func (s *TokenStore) Resolve(ctx context.Context, token string) (uint, error) {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if err == redisv9.Nil {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis resolve token failed: %w", err)
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token owner failed: %w", err)
	}
	return uint(userID), nil
}

// Revoke deletes the token and its owner's reuse mapping.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.tokenKey(token))
	pipe.Del(ctx, s.userKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis revoke token failed: %w", err)
	}
	return nil
}

func (s *TokenStore) tokenKey(token string) string {
	return fmt.Sprintf("auth:token:%s", token)
}

func (s *TokenStore) userKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}
