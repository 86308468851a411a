// Package session implements the self-contained signed login cookie. The
// cookie carries the username plus a salted hash of the username combined
// with a server-held secret; there is no server-side session store, so the
// cookie and the secret together are the sole source of truth.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/haltakov/iwanttoreadmore/pkg/utils"
)

// Lifetime is how long an issued login cookie stays valid. Expiry is
// enforced through the cookie's own Expires attribute; logout works by
// issuing an immediately expired replacement.
const Lifetime = 30 * 24 * time.Hour

var ErrNoSecret = errors.New("session: cookie secret is not configured")

// Signer builds and verifies login cookies against a fixed secret. Rotating
// the secret invalidates every outstanding session.
type Signer struct {
	secret string
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Signer{secret: secret}, nil
}

// Sign returns the cookie value for a logged-in user. The signature hash is
// salted per call, so signing the same username twice yields different byte
// strings that both verify.
func (s *Signer) Sign(username string) (string, error) {
	content := "user=" + username
	signature, err := utils.HashPassword(content + s.secret)
	if err != nil {
		return "", err
	}
	return content + "&signature=" + signature, nil
}

// Identity extracts the verified username from a raw Cookie header. The
// header may carry several ;-separated pairs; the first one holding both a
// user and a signature field is checked. Malformed input and signature
// mismatches yield ("", false), never an error.
func (s *Signer) Identity(cookieHeader string) (string, bool) {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)

		username, signature, found := strings.Cut(part, "&signature=")
		if !found {
			continue
		}

		username, hasUser := strings.CutPrefix(username, "user=")
		if !hasUser || username == "" || signature == "" {
			continue
		}

		if utils.CheckPasswordHash("user="+username+s.secret, signature) {
			return username, true
		}
		return "", false
	}

	return "", false
}
