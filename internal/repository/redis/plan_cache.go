package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// planKey is the key pattern for a cached plan, keyed by a hash of the
// board+side it was computed for (the request is idempotent: the same
// board always produces the same plan).
func planKey(boardHash string) string { return "plan:" + boardHash }

// planCacheTTL bounds how long a cached plan survives: long enough to
// absorb a burst of repeated requests for the same position, short enough
// that a stale model or rule change doesn't linger indefinitely.
const planCacheTTL = 10 * time.Minute

// SetPlan stores the action list computed for boardHash.
func (c *Client) SetPlan(ctx context.Context, boardHash string, actions []string) error {
	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return c.rdb.Set(ctx, planKey(boardHash), data, planCacheTTL).Err()
}

// GetPlan retrieves a previously cached action list, if present.
func (c *Client) GetPlan(ctx context.Context, boardHash string) ([]string, bool, error) {
	data, err := c.rdb.Get(ctx, planKey(boardHash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get plan: %w", err)
	}
	var actions []string
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, false, fmt.Errorf("unmarshal plan: %w", err)
	}
	return actions, true, nil
}

// InvalidatePlan removes a cached plan, used when the underlying board
// changes before the cache entry would naturally expire.
func (c *Client) InvalidatePlan(ctx context.Context, boardHash string) error {
	return c.rdb.Del(ctx, planKey(boardHash)).Err()
}
