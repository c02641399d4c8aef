// Package counter keeps engagement hot state in redis
//
// keys:
//
//	likes:count:{quoteID}  string tally of likes
//	likes:{userID}         set of quote ids the user liked
//	saves:{userID}         set of quote ids the user saved
package counter

import (
	"context"
	"strconv"

	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/store/rds"
	"quotewall/internal/services/engagement/domain"

	"github.com/redis/go-redis/v9"
)

// decrFloor decrements the tally but never below zero
// a missing or non positive key is pinned to "0" instead of going negative
var decrFloor = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v or tonumber(v) <= 0 then
  redis.call('SET', KEYS[1], '0')
  return 0
end
return redis.call('DECR', KEYS[1])
`)

// Counter wraps the redis fast path for engagement state
type Counter struct {
	c redis.Cmdable
}

// New builds a Counter over the store's redis handle
// a nil handle yields a nil Counter, callers must treat that as cache-down
func New(r *rds.RDS) *Counter {
	if r == nil || r.C == nil {
		return nil
	}
	return &Counter{c: r.C}
}

// NewWithClient is a seam for tests
func NewWithClient(c redis.Cmdable) *Counter { return &Counter{c: c} }

func countKey(quoteID string) string { return "likes:count:" + quoteID }

func setKey(kind domain.Kind, userID string) string { return string(kind) + ":" + userID }

// AddMember records quoteID in the user's engagement set
// added is false when the pair was already present
func (c *Counter) AddMember(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error) {
	n, err := c.c.SAdd(ctx, setKey(kind, userID), quoteID).Result()
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis sadd")
	}
	return n == 1, nil
}

// RemoveMember drops quoteID from the user's engagement set
// removed is false when the pair was not present
func (c *Counter) RemoveMember(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error) {
	n, err := c.c.SRem(ctx, setKey(kind, userID), quoteID).Result()
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis srem")
	}
	return n == 1, nil
}

// MembersAmong reports which of quoteIDs are in the user's engagement set
func (c *Counter) MembersAmong(ctx context.Context, kind domain.Kind, userID string, quoteIDs []string) (map[string]bool, error) {
	if len(quoteIDs) == 0 {
		return map[string]bool{}, nil
	}
	members := make([]any, len(quoteIDs))
	for i, id := range quoteIDs {
		members[i] = id
	}
	flags, err := c.c.SMIsMember(ctx, setKey(kind, userID), members...).Result()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis smismember")
	}
	out := make(map[string]bool, len(quoteIDs))
	for i, id := range quoteIDs {
		out[id] = flags[i]
	}
	return out, nil
}

// IncrLikes bumps the like tally and returns the new value
func (c *Counter) IncrLikes(ctx context.Context, quoteID string) (int64, error) {
	n, err := c.c.Incr(ctx, countKey(quoteID)).Result()
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis incr")
	}
	return n, nil
}

// DecrLikes lowers the like tally, flooring at zero
func (c *Counter) DecrLikes(ctx context.Context, quoteID string) (int64, error) {
	n, err := decrFloor.Run(ctx, c.c, []string{countKey(quoteID)}).Int64()
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis decr floor")
	}
	return n, nil
}

// Counts bulk reads like tallies; ids with no cached tally land in missing
func (c *Counter) Counts(ctx context.Context, quoteIDs []string) (map[string]int64, []string, error) {
	if len(quoteIDs) == 0 {
		return map[string]int64{}, nil, nil
	}
	keys := make([]string, len(quoteIDs))
	for i, id := range quoteIDs {
		keys[i] = countKey(id)
	}
	vals, err := c.c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis mget")
	}

	out := make(map[string]int64, len(quoteIDs))
	var missing []string
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, quoteIDs[i])
			continue
		}
		n, perr2 := strconv.ParseInt(s, 10, 64)
		if perr2 != nil {
			missing = append(missing, quoteIDs[i])
			continue
		}
		out[quoteIDs[i]] = n
	}
	return out, missing, nil
}

// SeedCount writes a tally only when none is cached yet
// losing the race to a concurrent INCR is fine, the INCR side wins
func (c *Counter) SeedCount(ctx context.Context, quoteID string, n int64) error {
	if err := c.c.SetNX(ctx, countKey(quoteID), strconv.FormatInt(n, 10), 0).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "redis setnx")
	}
	return nil
}

// InvalidateQuote drops the cached tally for a deleted quote
func (c *Counter) InvalidateQuote(ctx context.Context, quoteID string) error {
	if err := c.c.Del(ctx, countKey(quoteID)).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "redis del")
	}
	return nil
}
