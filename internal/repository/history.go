package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisHistoryRepository is the append-only vote history ledger. Dedup
// entries are written with SETNX, making Record an insert-if-absent; entries
// are never mutated or deleted.
type RedisHistoryRepository struct {
	rdb *redis.Client
}

func NewRedisHistoryRepository(rdb *redis.Client) *RedisHistoryRepository {
	return &RedisHistoryRepository{rdb: rdb}
}

func (r *RedisHistoryRepository) Exists(ctx context.Context, hash string) (bool, error) {
	n, err := r.rdb.Exists(ctx, historyKey(hash)).Result()
	if err != nil {
		return false, unavailable("history: exists", err)
	}
	return n > 0, nil
}

// Record inserts a dedup entry keyed by hash and logs the vote timestamp
// under (user, topicKey). Re-recording an existing entry is a silent no-op.
func (r *RedisHistoryRepository) Record(ctx context.Context, user, topicKey, hash string, t time.Time) error {
	created, err := r.rdb.SetNX(ctx, historyKey(hash), strconv.FormatInt(t.Unix(), 10), 0).Result()
	if err != nil {
		return unavailable("history: record", err)
	}
	if !created {
		return nil
	}
	if err := r.rdb.RPush(ctx, historyLogKey(user, topicKey), strconv.FormatInt(t.Unix(), 10)).Err(); err != nil {
		return unavailable("history: record", err)
	}
	return nil
}

func (r *RedisHistoryRepository) Timestamps(ctx context.Context, user, topicKey string) ([]time.Time, error) {
	raw, err := r.rdb.LRange(ctx, historyLogKey(user, topicKey), 0, -1).Result()
	if err != nil {
		return nil, unavailable("history: timestamps", err)
	}

	timestamps := make([]time.Time, 0, len(raw))
	for _, v := range raw {
		unix, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		timestamps = append(timestamps, time.Unix(unix, 0).UTC())
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	return timestamps, nil
}
