package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haltakov/iwanttoreadmore/internal/models"
)

const (
	fieldUsername       = "username"
	fieldEmail          = "email"
	fieldPasswordHash   = "password_hash"
	fieldRegistered     = "registered"
	fieldLastActive     = "last_active"
	fieldIsPublic       = "is_public"
	fieldVotedMessage   = "voted_message"
	fieldVotedRedirect  = "voted_redirect"
	fieldSingleProjects = "single_voting_projects"
)

// RedisUserRepository stores one hash per account plus a secondary index key
// per e-mail. Uniqueness of both username and e-mail is claimed with
// conditional writes, which closes the original check-then-act registration
// race.
type RedisUserRepository struct {
	rdb *redis.Client
}

func NewRedisUserRepository(rdb *redis.Client) *RedisUserRepository {
	return &RedisUserRepository{rdb: rdb}
}

func (r *RedisUserRepository) Create(ctx context.Context, user *models.User) error {
	ok, err := r.rdb.SetNX(ctx, emailKey(user.Email), user.Username, 0).Result()
	if err != nil {
		return unavailable("users: create", err)
	}
	if !ok {
		return models.ErrAlreadyExists
	}

	ok, err = r.rdb.HSetNX(ctx, userKey(user.Username), fieldUsername, user.Username).Result()
	if err != nil {
		return unavailable("users: create", err)
	}
	if !ok {
		// Roll back the e-mail claim so the address stays usable.
		r.rdb.Del(ctx, emailKey(user.Email))
		return models.ErrAlreadyExists
	}

	projects, err := json.Marshal(user.SingleVotingProjects)
	if err != nil {
		return err
	}

	err = r.rdb.HSet(ctx, userKey(user.Username),
		fieldEmail, user.Email,
		fieldPasswordHash, user.PasswordHash,
		fieldRegistered, strconv.FormatInt(user.Registered.Unix(), 10),
		fieldLastActive, strconv.FormatInt(user.LastActive.Unix(), 10),
		fieldIsPublic, boolField(user.IsPublic),
		fieldVotedMessage, user.VotedMessage,
		fieldVotedRedirect, user.VotedRedirect,
		fieldSingleProjects, string(projects),
	).Err()
	if err != nil {
		return unavailable("users: create", err)
	}
	return nil
}

func (r *RedisUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	fields, err := r.rdb.HGetAll(ctx, userKey(username)).Result()
	if err != nil {
		return nil, unavailable("users: get", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return userFromFields(fields)
}

func (r *RedisUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	username, err := r.rdb.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("users: get by email", err)
	}
	return r.GetByUsername(ctx, username)
}

func (r *RedisUserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	err := r.rdb.HSet(ctx, userKey(username), fieldPasswordHash, passwordHash).Err()
	if err != nil {
		return unavailable("users: update password", err)
	}
	return nil
}

func (r *RedisUserRepository) UpdateEmail(ctx context.Context, username, email string) error {
	old, err := r.rdb.HGet(ctx, userKey(username), fieldEmail).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return unavailable("users: update email", err)
	}

	ok, err := r.rdb.SetNX(ctx, emailKey(email), username, 0).Result()
	if err != nil {
		return unavailable("users: update email", err)
	}
	if !ok {
		return models.ErrAlreadyExists
	}

	if err := r.rdb.HSet(ctx, userKey(username), fieldEmail, email).Err(); err != nil {
		return unavailable("users: update email", err)
	}
	if old != "" && old != email {
		r.rdb.Del(ctx, emailKey(old))
	}
	return nil
}

func (r *RedisUserRepository) UpdateLastActive(ctx context.Context, username string, t time.Time) error {
	err := r.rdb.HSet(ctx, userKey(username), fieldLastActive, strconv.FormatInt(t.Unix(), 10)).Err()
	if err != nil {
		return unavailable("users: update last active", err)
	}
	return nil
}

func (r *RedisUserRepository) SetPublic(ctx context.Context, username string, public bool) error {
	err := r.rdb.HSet(ctx, userKey(username), fieldIsPublic, boolField(public)).Err()
	if err != nil {
		return unavailable("users: set public", err)
	}
	return nil
}

func (r *RedisUserRepository) SetVotedMessageAndRedirect(ctx context.Context, username, message, redirect string) error {
	err := r.rdb.HSet(ctx, userKey(username),
		fieldVotedMessage, message,
		fieldVotedRedirect, redirect,
	).Err()
	if err != nil {
		return unavailable("users: set voted message", err)
	}
	return nil
}

func (r *RedisUserRepository) SetSingleVotingProjects(ctx context.Context, username string, projects []string) error {
	encoded, err := json.Marshal(projects)
	if err != nil {
		return err
	}
	if err := r.rdb.HSet(ctx, userKey(username), fieldSingleProjects, string(encoded)).Err(); err != nil {
		return unavailable("users: set single voting projects", err)
	}
	return nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func userFromFields(fields map[string]string) (*models.User, error) {
	registered, _ := strconv.ParseInt(fields[fieldRegistered], 10, 64)
	lastActive, _ := strconv.ParseInt(fields[fieldLastActive], 10, 64)

	var projects []string
	if raw := fields[fieldSingleProjects]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &projects); err != nil {
			return nil, err
		}
	}

	return &models.User{
		Username:             fields[fieldUsername],
		Email:                fields[fieldEmail],
		PasswordHash:         fields[fieldPasswordHash],
		Registered:           time.Unix(registered, 0).UTC(),
		LastActive:           time.Unix(lastActive, 0).UTC(),
		IsPublic:             fields[fieldIsPublic] == "1",
		VotedMessage:         fields[fieldVotedMessage],
		VotedRedirect:        fields[fieldVotedRedirect],
		SingleVotingProjects: projects,
	}, nil
}
