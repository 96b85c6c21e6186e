package auth

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// LoggedOutKey is the Redis set the account service adds user ids to on
// logout.
const LoggedOutKey = "auth:logged_out"

type Sessions struct {
	redis *redis.Client
}

// NewSessions returns nil when no client is configured, which disables the
// logged-out check.
func NewSessions(redisClient *redis.Client) *Sessions {
	if redisClient == nil {
		return nil
	}
	return &Sessions{redis: redisClient}
}

func (s *Sessions) LoggedOut(ctx context.Context, userID string) (bool, error) {
	if s == nil {
		return false, nil
	}
	return s.redis.SIsMember(ctx, LoggedOutKey, userID).Result()
}
