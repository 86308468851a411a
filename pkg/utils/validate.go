package utils

import (
	"regexp"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{4,30}$`)
	voteIdRe   = regexp.MustCompile(`^[a-z0-9_.-]+$`)
	passwordRe = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*\-_.,+=]{4,100}$`)
	emailRe    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	messageRe  = regexp.MustCompile(`^[0-9a-zA-Z !@#$%^&*()\[\]{}_+\-=.,/?]{1,500}$`)
	urlRe      = regexp.MustCompile(`^(?i)(https?|ftps?)://([a-z0-9-]+(\.[a-z0-9-]+)+|localhost|\d{1,3}(\.\d{1,3}){3})(:\d+)?(/[^\s]*)?$`)
)

// CheckUsername reports whether s is a valid account name.
func CheckUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// CheckPassword reports whether s is a valid password.
func CheckPassword(s string) bool {
	return passwordRe.MatchString(s)
}

// CheckEmail reports whether s has a local@domain.tld shape.
func CheckEmail(s string) bool {
	return emailRe.MatchString(s)
}

// CheckVotedMessage reports whether s is a valid voted message. Empty is
// valid; the allow-list excludes angle brackets so the message can never
// carry markup.
func CheckVotedMessage(s string) bool {
	if s == "" {
		return true
	}
	return messageRe.MatchString(s)
}

// CheckURL reports whether s is a valid http(s)/ftp(s) URL. Empty is valid.
func CheckURL(s string) bool {
	if s == "" {
		return true
	}
	return urlRe.MatchString(s)
}

// CheckVoteIdentifier reports whether s is a valid lowercase identifier on
// the vote path (users, projects and topics share the charset but not the
// length bounds).
func CheckVoteIdentifier(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	return voteIdRe.MatchString(s)
}
