package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const UserKeyPrefix = "user:%s"

// DefaultUserTTL applies when CACHE_USER_TTL_SECONDS is not positive.
const DefaultUserTTL = 5 * time.Minute

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// UserTTL converts the configured seconds into a duration.
func UserTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return DefaultUserTTL
	}
	return time.Duration(seconds) * time.Second
}

func InvalidateUser(ctx context.Context, rdb redis.Cmdable, userID string) {
	Invalidate(ctx, rdb, UserKey(userID))
}
