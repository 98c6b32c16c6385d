package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RevocationStore records per-user token revocation cutoffs. Tokens issued
// before the cutoff are rejected by the middleware; changing a password is
// the only event that moves it.
type RevocationStore interface {
	Revoke(ctx context.Context, userID int64) error
	Cutoff(ctx context.Context, userID int64) (time.Time, bool)
}

type redisRevocationStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisRevocationStore builds a store backed by Redis. Entries live as
// long as a token could: once every token issued before the cutoff has
// expired on its own, the key is useless and may lapse.
func NewRedisRevocationStore(client *redis.Client, tokenTTL time.Duration, logger *zap.Logger) RevocationStore {
	return &redisRevocationStore{client: client, ttl: tokenTTL, logger: logger}
}

func revocationKey(userID int64) string {
	return "auth:revoked_before:" + strconv.FormatInt(userID, 10)
}

func (s *redisRevocationStore) Revoke(ctx context.Context, userID int64) error {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	return s.client.Set(ctx, revocationKey(userID), now, s.ttl).Err()
}

// Cutoff is fail-open: an unreachable Redis logs a warning and reports no
// cutoff rather than locking every caller out.
func (s *redisRevocationStore) Cutoff(ctx context.Context, userID int64) (time.Time, bool) {
	val, err := s.client.Get(ctx, revocationKey(userID)).Result()
	if err == redis.Nil {
		return time.Time{}, false
	}
	if err != nil {
		s.logger.Warn("revocation lookup failed", zap.Error(err))
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
