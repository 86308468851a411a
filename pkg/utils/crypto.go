package utils

import (
	"crypto/sha1"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only considers the first 72 bytes of its input; Go's implementation
// rejects longer inputs instead of truncating, so truncate explicitly to keep
// 100-char passwords and long cookie payloads hashable.
func bcryptInput(s string) []byte {
	b := []byte(s)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

// HashPassword computes a salted one-way hash of the password. A fresh salt
// is generated on every call, so two hashes of the same password differ.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash verifies a password against a stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// HashString returns a stable hex digest of s, used to build lookup keys for
// the vote history ledger. Not security-sensitive; it only needs to be
// collision-resistant enough for dedup keys and stable across restarts.
func HashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
