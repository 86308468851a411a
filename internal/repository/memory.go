package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/haltakov/iwanttoreadmore/internal/models"
)

// In-memory adapters with the same contracts as the Redis ones. They back
// the test suites and any single-process deployment that can afford to lose
// state on restart.

type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]models.User
	emails map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.emails[user.Email]; taken {
		return models.ErrAlreadyExists
	}
	if _, taken := r.users[user.Username]; taken {
		return models.ErrAlreadyExists
	}
	r.emails[user.Email] = user.Username
	r.users[user.Username] = *user
	return nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	username, ok := r.emails[email]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByUsername(ctx, username)
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, username, passwordHash string) error {
	return r.update(username, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (r *MemoryUserRepository) UpdateEmail(_ context.Context, username, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, taken := r.emails[email]; taken && owner != username {
		return models.ErrAlreadyExists
	}
	user, ok := r.users[username]
	if !ok {
		return models.ErrNotFound
	}
	delete(r.emails, user.Email)
	user.Email = email
	r.users[username] = user
	r.emails[email] = username
	return nil
}

func (r *MemoryUserRepository) UpdateLastActive(_ context.Context, username string, t time.Time) error {
	return r.update(username, func(u *models.User) { u.LastActive = t })
}

func (r *MemoryUserRepository) SetPublic(_ context.Context, username string, public bool) error {
	return r.update(username, func(u *models.User) { u.IsPublic = public })
}

func (r *MemoryUserRepository) SetVotedMessageAndRedirect(_ context.Context, username, message, redirect string) error {
	return r.update(username, func(u *models.User) {
		u.VotedMessage = message
		u.VotedRedirect = redirect
	})
}

func (r *MemoryUserRepository) SetSingleVotingProjects(_ context.Context, username string, projects []string) error {
	copied := append([]string(nil), projects...)
	return r.update(username, func(u *models.User) { u.SingleVotingProjects = copied })
}

func (r *MemoryUserRepository) update(username string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return models.ErrNotFound
	}
	fn(&user)
	r.users[username] = user
	return nil
}

type MemoryVoteRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]models.VoteEntry
	order   map[string][]string
}

func NewMemoryVoteRepository() *MemoryVoteRepository {
	return &MemoryVoteRepository{
		entries: make(map[string]map[string]models.VoteEntry),
		order:   make(map[string][]string),
	}
}

func (r *MemoryVoteRepository) GetCount(_ context.Context, user, topicKey string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[user][topicKey]
	if !ok {
		return 0, nil
	}
	return entry.VoteCount, nil
}

func (r *MemoryVoteRepository) Increment(_ context.Context, user, project, topic string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topicKey := models.TopicKey(project, topic)
	if r.entries[user] == nil {
		r.entries[user] = make(map[string]models.VoteEntry)
	}

	entry, ok := r.entries[user][topicKey]
	if !ok {
		entry = models.VoteEntry{Username: user, ProjectName: project, Topic: topic}
		r.order[user] = append(r.order[user], topicKey)
	}
	entry.VoteCount++
	entry.LastVote = t
	r.entries[user][topicKey] = entry
	return nil
}

func (r *MemoryVoteRepository) ListForUser(_ context.Context, user string) ([]models.VoteEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]models.VoteEntry, 0, len(r.order[user]))
	for _, topicKey := range r.order[user] {
		if entry, ok := r.entries[user][topicKey]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *MemoryVoteRepository) SetHidden(_ context.Context, user, topicKey string, hidden bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[user][topicKey]
	if !ok {
		return nil
	}
	entry.Hidden = hidden
	r.entries[user][topicKey] = entry
	return nil
}

func (r *MemoryVoteRepository) Delete(_ context.Context, user, topicKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries[user], topicKey)
	order := r.order[user]
	for i, key := range order {
		if key == topicKey {
			r.order[user] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

type MemoryHistoryRepository struct {
	mu     sync.RWMutex
	hashes map[string]time.Time
	logs   map[string][]time.Time
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		hashes: make(map[string]time.Time),
		logs:   make(map[string][]time.Time),
	}
}

func (r *MemoryHistoryRepository) Exists(_ context.Context, hash string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.hashes[hash]
	return ok, nil
}

func (r *MemoryHistoryRepository) Record(_ context.Context, user, topicKey, hash string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hashes[hash]; ok {
		return nil
	}
	r.hashes[hash] = t
	logKey := user + "/" + topicKey
	r.logs[logKey] = append(r.logs[logKey], t)
	return nil
}

func (r *MemoryHistoryRepository) Timestamps(_ context.Context, user, topicKey string) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timestamps := append([]time.Time(nil), r.logs[user+"/"+topicKey]...)
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	return timestamps, nil
}
