package models

import (
	"time"
)

type VoteEntry struct {
	Username    string    `json:"-"`
	ProjectName string    `json:"project_name"`
	Topic       string    `json:"topic"`
	VoteCount   int       `json:"vote_count"`
	LastVote    time.Time `json:"last_vote"`
	Hidden      bool      `json:"hidden,omitempty"`
}

// TopicKey builds the composite identifier of a votable topic within a
// user's namespace.
func TopicKey(project, topic string) string {
	return project + "/" + topic
}
