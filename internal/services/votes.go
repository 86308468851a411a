package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/haltakov/iwanttoreadmore/internal/models"
	"github.com/haltakov/iwanttoreadmore/pkg/utils"
)

// VoteRepository is the storage contract for the vote ledger. Increment is
// create-or-increment: the first vote on a topic creates the entry with
// count 1.
type VoteRepository interface {
	GetCount(ctx context.Context, user, topicKey string) (int, error)
	Increment(ctx context.Context, user, project, topic string, t time.Time) error
	ListForUser(ctx context.Context, user string) ([]models.VoteEntry, error)
	SetHidden(ctx context.Context, user, topicKey string, hidden bool) error
	Delete(ctx context.Context, user, topicKey string) error
}

// HistoryRepository is the append-only deduplication ledger. Record is an
// insert-if-absent keyed by a deterministic hash.
type HistoryRepository interface {
	Exists(ctx context.Context, hash string) (bool, error)
	Record(ctx context.Context, user, topicKey, hash string, t time.Time) error
	Timestamps(ctx context.Context, user, topicKey string) ([]time.Time, error)
}

type VoteService struct {
	votes   VoteRepository
	history HistoryRepository
	users   UserRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewVoteService(votes VoteRepository, history HistoryRepository, users UserRepository, logger *slog.Logger) *VoteService {
	return &VoteService{
		votes:   votes,
		history: history,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit runs the full vote pipeline for one request. Invalid identifiers,
// unknown users and duplicate votes are all rejected silently: the caller
// cannot distinguish them from an accepted vote, so the endpoint leaks
// neither account existence nor voting state. The only non-nil return is an
// infrastructure failure.
func (s *VoteService) Submit(ctx context.Context, user, project, topic, ip string) error {
	user = strings.ToLower(user)
	project = strings.ToLower(project)
	topic = strings.ToLower(topic)

	if !utils.CheckVoteIdentifier(user, 3, 30) ||
		!utils.CheckVoteIdentifier(project, 1, 100) ||
		!utils.CheckVoteIdentifier(topic, 1, 100) {
		s.logger.Debug("vote rejected", "reason", "invalid identifiers")
		return nil
	}

	topicKey := models.TopicKey(project, topic)

	voted, err := s.history.Exists(ctx, utils.HashString(user+topicKey+ip))
	if err != nil {
		return err
	}
	if voted {
		s.logger.Debug("vote rejected", "reason", "duplicate ip", "user", user, "topic_key", topicKey)
		return nil
	}

	account, err := s.users.GetByUsername(ctx, user)
	if err != nil {
		return err
	}
	if account == nil {
		s.logger.Debug("vote rejected", "reason", "unknown user", "user", user)
		return nil
	}

	if account.HasSingleVoting(project) {
		votedOnProject, err := s.history.Exists(ctx, utils.HashString(user+project+ip))
		if err != nil {
			return err
		}
		if votedOnProject {
			s.logger.Debug("vote rejected", "reason", "single voting project", "user", user, "project", project)
			return nil
		}
	}

	now := s.now().UTC()
	if err := s.votes.Increment(ctx, user, project, topic, now); err != nil {
		return err
	}
	if err := s.history.Record(ctx, user, topicKey, utils.HashString(user+topicKey+ip), now); err != nil {
		return err
	}
	// The project-level entry is always recorded, so enabling single voting
	// later also covers votes cast before the setting changed.
	if err := s.history.Record(ctx, user, project, utils.HashString(user+project+ip), now); err != nil {
		return err
	}

	s.logger.Info("vote recorded", "user", user, "topic_key", topicKey)
	return nil
}

func (s *VoteService) GetCount(ctx context.Context, user, topicKey string) (int, error) {
	return s.votes.GetCount(ctx, user, topicKey)
}

// ListForUser returns the user's vote entries sorted by vote count
// descending; entries with equal counts keep their insertion order.
func (s *VoteService) ListForUser(ctx context.Context, user string) ([]models.VoteEntry, error) {
	entries, err := s.votes.ListForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	sortByCount(entries)
	return entries, nil
}

func (s *VoteService) ListForProject(ctx context.Context, user, project string) ([]models.VoteEntry, error) {
	entries, err := s.votes.ListForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	filtered := entries[:0]
	for _, entry := range entries {
		if entry.ProjectName == project {
			filtered = append(filtered, entry)
		}
	}
	sortByCount(filtered)
	return filtered, nil
}

func (s *VoteService) SetHidden(ctx context.Context, user, project, topic string, hidden bool) error {
	return s.votes.SetHidden(ctx, user, models.TopicKey(project, topic), hidden)
}

func (s *VoteService) Delete(ctx context.Context, user, project, topic string) error {
	return s.votes.Delete(ctx, user, models.TopicKey(project, topic))
}

// History returns the sorted vote timestamps for one topic.
func (s *VoteService) History(ctx context.Context, user, project, topic string) ([]time.Time, error) {
	return s.history.Timestamps(ctx, user, models.TopicKey(project, topic))
}

func sortByCount(entries []models.VoteEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].VoteCount > entries[j].VoteCount
	})
}
