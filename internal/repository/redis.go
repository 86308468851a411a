// Package repository provides the storage adapters behind the per-entity
// repository interfaces consumed by the services. The primary adapter is
// Redis; an in-memory adapter backs the tests. Key scheme:
//
//	user:<username>            hash with the account fields
//	user:email:<email>         secondary index, value is the username
//	vote:<user>:<topic_key>    hash with the vote entry fields
//	votes:<user>               list of topic keys in insertion order
//	votehist:<hash>            dedup entry, value is the vote timestamp
//	votehist:log:<user>:<key>  list of vote timestamps for one topic
package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/haltakov/iwanttoreadmore/internal/models"
)

func InitRedis(addr string, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}

func userKey(username string) string { return "user:" + username }

func emailKey(email string) string { return "user:email:" + email }

func voteKey(user, topicKey string) string { return "vote:" + user + ":" + topicKey }

func voteIndexKey(user string) string { return "votes:" + user }

func historyKey(hash string) string { return "votehist:" + hash }

func historyLogKey(user, topicKey string) string {
	return "votehist:log:" + user + ":" + topicKey
}

// unavailable marks a store round-trip failure so callers can branch on
// models.ErrUnavailable without seeing redis internals.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, models.ErrUnavailable, err)
}
