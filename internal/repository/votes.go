package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haltakov/iwanttoreadmore/internal/models"
)

const (
	fieldProjectName = "project_name"
	fieldTopic       = "topic"
	fieldVoteCount   = "vote_count"
	fieldLastVote    = "last_vote"
	fieldHidden      = "hidden"
)

// RedisVoteRepository stores one hash per (user, topic key) vote entry and a
// per-user list of topic keys in insertion order. The counter uses HINCRBY,
// so concurrent votes on the same topic never lose increments.
type RedisVoteRepository struct {
	rdb *redis.Client
}

func NewRedisVoteRepository(rdb *redis.Client) *RedisVoteRepository {
	return &RedisVoteRepository{rdb: rdb}
}

func (r *RedisVoteRepository) GetCount(ctx context.Context, user, topicKey string) (int, error) {
	count, err := r.rdb.HGet(ctx, voteKey(user, topicKey), fieldVoteCount).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("votes: get count", err)
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RedisVoteRepository) Increment(ctx context.Context, user, project, topic string, t time.Time) error {
	topicKey := models.TopicKey(project, topic)
	key := voteKey(user, topicKey)

	count, err := r.rdb.HIncrBy(ctx, key, fieldVoteCount, 1).Result()
	if err != nil {
		return unavailable("votes: increment", err)
	}

	err = r.rdb.HSet(ctx, key,
		fieldProjectName, project,
		fieldTopic, topic,
		fieldLastVote, strconv.FormatInt(t.Unix(), 10),
	).Err()
	if err != nil {
		return unavailable("votes: increment", err)
	}

	if count == 1 {
		if err := r.rdb.RPush(ctx, voteIndexKey(user), topicKey).Err(); err != nil {
			return unavailable("votes: increment", err)
		}
	}
	return nil
}

func (r *RedisVoteRepository) ListForUser(ctx context.Context, user string) ([]models.VoteEntry, error) {
	topicKeys, err := r.rdb.LRange(ctx, voteIndexKey(user), 0, -1).Result()
	if err != nil {
		return nil, unavailable("votes: list", err)
	}

	entries := make([]models.VoteEntry, 0, len(topicKeys))
	for _, topicKey := range topicKeys {
		fields, err := r.rdb.HGetAll(ctx, voteKey(user, topicKey)).Result()
		if err != nil {
			return nil, unavailable("votes: list", err)
		}
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, voteFromFields(user, fields))
	}
	return entries, nil
}

func (r *RedisVoteRepository) SetHidden(ctx context.Context, user, topicKey string, hidden bool) error {
	exists, err := r.rdb.Exists(ctx, voteKey(user, topicKey)).Result()
	if err != nil {
		return unavailable("votes: set hidden", err)
	}
	if exists == 0 {
		return nil
	}
	if err := r.rdb.HSet(ctx, voteKey(user, topicKey), fieldHidden, boolField(hidden)).Err(); err != nil {
		return unavailable("votes: set hidden", err)
	}
	return nil
}

func (r *RedisVoteRepository) Delete(ctx context.Context, user, topicKey string) error {
	if err := r.rdb.Del(ctx, voteKey(user, topicKey)).Err(); err != nil {
		return unavailable("votes: delete", err)
	}
	if err := r.rdb.LRem(ctx, voteIndexKey(user), 0, topicKey).Err(); err != nil {
		return unavailable("votes: delete", err)
	}
	return nil
}

func voteFromFields(user string, fields map[string]string) models.VoteEntry {
	count, _ := strconv.Atoi(fields[fieldVoteCount])
	lastVote, _ := strconv.ParseInt(fields[fieldLastVote], 10, 64)

	return models.VoteEntry{
		Username:    user,
		ProjectName: fields[fieldProjectName],
		Topic:       fields[fieldTopic],
		VoteCount:   count,
		LastVote:    time.Unix(lastVote, 0).UTC(),
		Hidden:      fields[fieldHidden] == "1",
	}
}
