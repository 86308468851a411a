package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/haltakov/iwanttoreadmore/internal/models"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &models.User{
		Username:     "user_1",
		Email:        "user1@example.com",
		PasswordHash: "hash",
		Registered:   time.Unix(1000, 0).UTC(),
		LastActive:   time.Unix(1000, 0).UTC(),
	}
	assert.NoError(t, repo.Create(ctx, user))

	t.Run("create claims username and email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "user_1", Email: "other@example.com"})
		assert.ErrorIs(t, err, models.ErrAlreadyExists)

		err = repo.Create(ctx, &models.User{Username: "user_2", Email: "user1@example.com"})
		assert.ErrorIs(t, err, models.ErrAlreadyExists)
	})

	t.Run("lookups", func(t *testing.T) {
		found, err := repo.GetByUsername(ctx, "user_1")
		assert.NoError(t, err)
		assert.Equal(t, "user1@example.com", found.Email)

		found, err = repo.GetByEmail(ctx, "user1@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "user_1", found.Username)

		found, err = repo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		found, _ := repo.GetByUsername(ctx, "user_1")
		found.Email = "mutated@example.com"

		again, _ := repo.GetByUsername(ctx, "user_1")
		assert.Equal(t, "user1@example.com", again.Email)
	})

	t.Run("email change moves the index", func(t *testing.T) {
		assert.NoError(t, repo.UpdateEmail(ctx, "user_1", "new@example.com"))

		found, _ := repo.GetByEmail(ctx, "new@example.com")
		assert.NotNil(t, found)
		old, _ := repo.GetByEmail(ctx, "user1@example.com")
		assert.Nil(t, old)
	})

	t.Run("updates on unknown user", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdatePassword(ctx, "nobody", "x"), models.ErrNotFound)
		assert.ErrorIs(t, repo.SetPublic(ctx, "nobody", true), models.ErrNotFound)
	})
}

func TestMemoryVoteRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVoteRepository()
	ts := time.Unix(2000, 0).UTC()

	t.Run("increment creates then counts up", func(t *testing.T) {
		assert.NoError(t, repo.Increment(ctx, "user_1", "project_a", "topic_aaa", ts))
		count, err := repo.GetCount(ctx, "user_1", "project_a/topic_aaa")
		assert.NoError(t, err)
		assert.Equal(t, 1, count)

		assert.NoError(t, repo.Increment(ctx, "user_1", "project_a", "topic_aaa", ts.Add(time.Minute)))
		count, _ = repo.GetCount(ctx, "user_1", "project_a/topic_aaa")
		assert.Equal(t, 2, count)
	})

	t.Run("missing topic counts zero", func(t *testing.T) {
		count, err := repo.GetCount(ctx, "user_1", "project_a/nothing")
		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		assert.NoError(t, repo.Increment(ctx, "user_1", "project_b", "topic_bbb", ts))

		entries, err := repo.ListForUser(ctx, "user_1")
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, "topic_aaa", entries[0].Topic)
		assert.Equal(t, "topic_bbb", entries[1].Topic)
	})

	t.Run("delete removes entry and index", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, "user_1", "project_a/topic_aaa"))
		entries, _ := repo.ListForUser(ctx, "user_1")
		assert.Len(t, entries, 1)
		assert.Equal(t, "topic_bbb", entries[0].Topic)
	})
}

func TestMemoryHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository()
	ts := time.Unix(3000, 0).UTC()

	exists, err := repo.Exists(ctx, "hash_1")
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, repo.Record(ctx, "user_1", "project_a/topic_aaa", "hash_1", ts))
	exists, _ = repo.Exists(ctx, "hash_1")
	assert.True(t, exists)

	t.Run("record is insert-if-absent", func(t *testing.T) {
		assert.NoError(t, repo.Record(ctx, "user_1", "project_a/topic_aaa", "hash_1", ts.Add(time.Hour)))

		timestamps, err := repo.Timestamps(ctx, "user_1", "project_a/topic_aaa")
		assert.NoError(t, err)
		assert.Equal(t, []time.Time{ts}, timestamps)
	})

	t.Run("timestamps are sorted", func(t *testing.T) {
		assert.NoError(t, repo.Record(ctx, "user_1", "project_a/topic_aaa", "hash_0", ts.Add(-time.Hour)))

		timestamps, _ := repo.Timestamps(ctx, "user_1", "project_a/topic_aaa")
		assert.Equal(t, []time.Time{ts.Add(-time.Hour), ts}, timestamps)
	})
}
