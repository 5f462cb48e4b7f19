package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyGate claims first-login slots via SET NX, so only one request per
// user per calendar day observes firstLoginToday=true even across
// instances. Keys expire after two days; the day component makes stale
// keys harmless anyway.
type DailyGate struct {
	client *redis.Client
}

func NewDailyGate(client *redis.Client) *DailyGate {
	return &DailyGate{client: client}
}

func (g *DailyGate) Claim(ctx context.Context, userID, day string) (bool, error) {
	return g.client.SetNX(ctx, g.key(userID, day), "1", 48*time.Hour).Result()
}

func (g *DailyGate) key(userID, day string) string {
	return "login:" + userID + ":" + day
}
