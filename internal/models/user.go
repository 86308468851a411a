package models

import (
	"time"
)

type User struct {
	Username             string    `json:"user"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	Registered           time.Time `json:"registered"`
	LastActive           time.Time `json:"last_active"`
	IsPublic             bool      `json:"is_public"`
	VotedMessage         string    `json:"voted_message,omitempty"`
	VotedRedirect        string    `json:"voted_redirect,omitempty"`
	SingleVotingProjects []string  `json:"single_voting_projects,omitempty"`
}

// HasSingleVoting reports whether the user limited the project to one vote
// per IP across the whole project instead of one per topic.
func (u *User) HasSingleVoting(project string) bool {
	for _, p := range u.SingleVotingProjects {
		if p == project {
			return true
		}
	}
	return false
}
