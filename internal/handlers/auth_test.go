package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	env := setupTestEnv()

	t.Run("success", func(t *testing.T) {
		w := env.perform("POST", "/api/register", "", "", map[string]string{
			"username": "user_x",
			"email":    "userx@example.com",
			"password": "validpass",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := env.perform("POST", "/api/register", "", "", map[string]string{
			"username": "user_y",
			"email":    "userx@example.com",
			"password": "validpass",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid input", func(t *testing.T) {
		w := env.perform("POST", "/api/register", "", "", map[string]string{
			"username": "ab",
			"email":    "a@b.com",
			"password": "validpass",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := env.perform("POST", "/api/register", "", "", map[string]string{
			"username": "user_z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	env := setupTestEnv()
	env.perform("POST", "/api/register", "", "", map[string]string{
		"username": "user_x",
		"email":    "userx@example.com",
		"password": "validpass",
	})

	t.Run("login with username sets a signed cookie", func(t *testing.T) {
		w := env.perform("POST", "/api/login", "", "", map[string]string{
			"identifier": "user_x",
			"password":   "validpass",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		cookie := w.Header().Get("Set-Cookie")
		assert.Contains(t, cookie, "user=user_x&signature=")
		assert.Contains(t, cookie, "HttpOnly")
		assert.Contains(t, cookie, "SameSite=Strict")
	})

	t.Run("login with email", func(t *testing.T) {
		cookie := env.login(t, "userx@example.com", "validpass")
		assert.True(t, strings.HasPrefix(cookie, "user=user_x&signature="))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.perform("POST", "/api/login", "", "", map[string]string{
			"identifier": "user_x",
			"password":   "wrongpass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("unknown identifier", func(t *testing.T) {
		w := env.perform("POST", "/api/login", "", "", map[string]string{
			"identifier": "nobody",
			"password":   "validpass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLoggedInAndLogout(t *testing.T) {
	env := setupTestEnv()
	env.perform("POST", "/api/register", "", "", map[string]string{
		"username": "user_x",
		"email":    "userx@example.com",
		"password": "validpass",
	})
	cookie := env.login(t, "user_x", "validpass")

	t.Run("logged in with valid cookie", func(t *testing.T) {
		w := env.perform("GET", "/api/loggedin", "", cookie, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user_x")
	})

	t.Run("logged out without cookie", func(t *testing.T) {
		w := env.perform("GET", "/api/loggedin", "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		tampered := strings.Replace(cookie, "user=user_x", "user=user_y", 1)
		w := env.perform("GET", "/api/loggedin", "", tampered, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout issues an expired cookie", func(t *testing.T) {
		w := env.perform("POST", "/api/logout", "", cookie, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Expires=Thu, 01 Jan 1970")
	})
}

func TestAccountHandlers(t *testing.T) {
	env := setupTestEnv()
	env.perform("POST", "/api/register", "", "", map[string]string{
		"username": "user_x",
		"email":    "userx@example.com",
		"password": "validpass",
	})
	cookie := env.login(t, "user_x", "validpass")

	t.Run("account info", func(t *testing.T) {
		w := env.perform("GET", "/api/user", "", cookie, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "userx@example.com")
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("requires auth", func(t *testing.T) {
		w := env.perform("GET", "/api/user", "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("change password", func(t *testing.T) {
		w := env.perform("POST", "/api/user/password", "", cookie, map[string]string{
			"newpassword":  "newpass123",
			"newpassword2": "newpass123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		// Old password no longer works.
		resp := env.perform("POST", "/api/login", "", "", map[string]string{
			"identifier": "user_x",
			"password":   "validpass",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		env.login(t, "user_x", "newpass123")
	})

	t.Run("password mismatch", func(t *testing.T) {
		w := env.perform("POST", "/api/user/password", "", cookie, map[string]string{
			"newpassword":  "newpass123",
			"newpassword2": "different",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "don't match")
	})

	t.Run("change email", func(t *testing.T) {
		w := env.perform("POST", "/api/user/email", "", cookie, map[string]string{
			"email": "new@example.com",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		user, err := env.users.GetByEmail(context.Background(), "new@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("set public", func(t *testing.T) {
		w := env.perform("POST", "/api/user/public", "", cookie, map[string]any{
			"is_public": true,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		user, _ := env.users.GetByUsername(context.Background(), "user_x")
		assert.True(t, user.IsPublic)
	})

	t.Run("voted message and redirect", func(t *testing.T) {
		w := env.perform("POST", "/api/user/voted-message", "", cookie, map[string]string{
			"voted_message":  "Thanks for voting!",
			"voted_redirect": "https://example.com/thanks",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.perform("POST", "/api/user/voted-message", "", cookie, map[string]string{
			"voted_message": "No <html> allowed",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("single voting projects", func(t *testing.T) {
		w := env.perform("POST", "/api/user/single-voting", "", cookie, map[string]any{
			"projects": []string{"project_a"},
		})
		assert.Equal(t, http.StatusOK, w.Code)

		user, _ := env.users.GetByUsername(context.Background(), "user_x")
		assert.Equal(t, []string{"project_a"}, user.SingleVotingProjects)
	})
}
