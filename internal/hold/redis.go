package hold

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoangnm/sports-booking/internal/model"
)

// RedisStore keeps holds in one sorted set per key: the member is the
// JSON-encoded hold and the score is its expiry as unix seconds.
// Appending is a single server-side ZADD, so concurrent writers for
// the same court-day can never overwrite each other's holds — there is
// no client-side read-modify-write to race on.  Reads prune entries
// whose score has passed before returning, so expired holds are never
// observed even before Redis reclaims the key.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	if rdb == nil {
		panic("nil redis client passed to NewRedisStore")
	}
	return &RedisStore{rdb: rdb}
}

func courtKey(courtID uint64, date string) string {
	return fmt.Sprintf("court:%d:%s:holds", courtID, date)
}

func cartKey(userID uint64) string {
	return fmt.Sprintf("cart:%d", userID)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, courtID uint64, date string) ([]model.Hold, error) {
	return s.read(ctx, courtKey(courtID, date))
}

// Place implements Store.  Both keys are written in one MULTI/EXEC
// pipeline, so the court-day set and the owner's cart never diverge:
// the hold lands in both or the whole request fails.
func (s *RedisStore) Place(ctx context.Context, h model.Hold, ttl time.Duration) error {
	body, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal hold: %w", err)
	}
	member := redis.Z{
		Score:  float64(time.Now().Add(ttl).Unix()),
		Member: string(body),
	}

	// ZADD is the atomic append; the key-level EXPIREs are only a
	// floor for Redis to reclaim each set once every member has
	// lapsed.  Each write pushes them out, which is fine: reads
	// score-prune.
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, courtKey(h.CourtID, h.Date), member)
	pipe.Expire(ctx, courtKey(h.CourtID, h.Date), ttl)
	pipe.ZAdd(ctx, cartKey(h.OwnerID), member)
	pipe.Expire(ctx, cartKey(h.OwnerID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// GetCart implements Store.
func (s *RedisStore) GetCart(ctx context.Context, userID uint64) ([]model.Hold, error) {
	return s.read(ctx, cartKey(userID))
}

func (s *RedisStore) read(ctx context.Context, key string) ([]model.Hold, error) {
	now := time.Now().Unix()

	pipe := s.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now, 10))
	members := pipe.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(now, 10),
		Max: "+inf",
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	raw, err := members.Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	holds := make([]model.Hold, 0, len(raw))
	for _, m := range raw {
		var h model.Hold
		if err := json.Unmarshal([]byte(m), &h); err != nil {
			// A corrupt member should not take the whole key down.
			continue
		}
		holds = append(holds, h)
	}
	return holds, nil
}
