package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haltakov/iwanttoreadmore/internal/models"
	"github.com/haltakov/iwanttoreadmore/pkg/utils"
)

// UserRepository is the storage contract for the user directory. Lookups
// return (nil, nil) for unknown accounts; only infrastructure failures are
// errors.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	UpdateEmail(ctx context.Context, username, email string) error
	UpdateLastActive(ctx context.Context, username string, t time.Time) error
	SetPublic(ctx context.Context, username string, public bool) error
	SetVotedMessageAndRedirect(ctx context.Context, username, message, redirect string) error
	SetSingleVotingProjects(ctx context.Context, username string, projects []string) error
}

type UserService struct {
	repo   UserRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Create registers a new account. New accounts start private with empty
// optional fields and both timestamps set to the creation time.
func (s *UserService) Create(ctx context.Context, username, email, password string) error {
	if !utils.CheckUsername(username) {
		return fmt.Errorf("%w: invalid username", models.ErrInvalidInput)
	}
	if !utils.CheckEmail(email) {
		return fmt.Errorf("%w: invalid e-mail", models.ErrInvalidInput)
	}
	if !utils.CheckPassword(password) {
		return fmt.Errorf("%w: invalid password", models.ErrInvalidInput)
	}

	if existing, err := s.repo.GetByUsername(ctx, username); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("%w: username already registered", models.ErrAlreadyExists)
	}
	if existing, err := s.repo.GetByEmail(ctx, email); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("%w: e-mail already registered", models.ErrAlreadyExists)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	err = s.repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Registered:   now,
		LastActive:   now,
		IsPublic:     false,
	})
	if err != nil {
		return err
	}

	s.logger.Info("user registered", "user", username)
	return nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Login verifies the credentials and returns the canonical username. An
// identifier containing @ is treated as an e-mail. Unknown identifier and
// wrong password both return "" without an error, so callers cannot tell
// which part failed.
func (s *UserService) Login(ctx context.Context, identifier, password string) (string, error) {
	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.repo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.repo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return "", err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil
	}

	if err := s.repo.UpdateLastActive(ctx, user.Username, s.now().UTC()); err != nil {
		return "", err
	}

	s.logger.Info("user logged in", "user", user.Username)
	return user.Username, nil
}

func (s *UserService) ChangePassword(ctx context.Context, username, password string) error {
	if !utils.CheckPassword(password) {
		return fmt.Errorf("%w: invalid password", models.ErrInvalidInput)
	}
	if err := s.mustExist(ctx, username); err != nil {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, username, hash)
}

func (s *UserService) ChangeEmail(ctx context.Context, username, email string) error {
	if !utils.CheckEmail(email) {
		return fmt.Errorf("%w: invalid e-mail", models.ErrInvalidInput)
	}
	if err := s.mustExist(ctx, username); err != nil {
		return err
	}
	return s.repo.UpdateEmail(ctx, username, email)
}

func (s *UserService) SetPublic(ctx context.Context, username string, public bool) error {
	if err := s.mustExist(ctx, username); err != nil {
		return err
	}
	return s.repo.SetPublic(ctx, username, public)
}

// SetVotedMessageAndRedirect stores the custom message and redirect shown
// after a vote. Either field may be cleared by passing an empty value.
func (s *UserService) SetVotedMessageAndRedirect(ctx context.Context, username, message, redirect string) error {
	if !utils.CheckVotedMessage(message) {
		return fmt.Errorf("%w: invalid voted message (don't use HTML tags)", models.ErrInvalidInput)
	}
	if !utils.CheckURL(redirect) {
		return fmt.Errorf("%w: invalid URL", models.ErrInvalidInput)
	}
	if err := s.mustExist(ctx, username); err != nil {
		return err
	}
	return s.repo.SetVotedMessageAndRedirect(ctx, username, message, redirect)
}

// SetSingleVotingProjects replaces the full list of projects limited to one
// vote per IP. Duplicates are collapsed, keeping the first occurrence.
func (s *UserService) SetSingleVotingProjects(ctx context.Context, username string, projects []string) error {
	seen := make(map[string]bool, len(projects))
	deduped := make([]string, 0, len(projects))
	for _, project := range projects {
		if !utils.CheckVoteIdentifier(project, 1, 100) {
			return fmt.Errorf("%w: invalid project name %q", models.ErrInvalidInput, project)
		}
		if seen[project] {
			continue
		}
		seen[project] = true
		deduped = append(deduped, project)
	}

	if err := s.mustExist(ctx, username); err != nil {
		return err
	}
	return s.repo.SetSingleVotingProjects(ctx, username, deduped)
}

func (s *UserService) mustExist(ctx context.Context, username string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: cannot find user %s", models.ErrNotFound, username)
	}
	return nil
}
