package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/haltakov/iwanttoreadmore/internal/config"
	"github.com/haltakov/iwanttoreadmore/internal/repository"
	"github.com/haltakov/iwanttoreadmore/internal/services"
	"github.com/haltakov/iwanttoreadmore/internal/session"
)

type testEnv struct {
	handler *Handler
	router  *gin.Engine
	users   *services.UserService
	votes   *services.VoteService
}

func setupTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		AppEnv:       "test",
		CookieSecret: "cookiesecret",
		VotedPageURL: "https://iwanttoreadmore.com/voted",
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	signer, _ := session.NewSigner(cfg.CookieSecret)

	userRepo := repository.NewMemoryUserRepository()
	userService := services.NewUserService(userRepo, logger)
	voteService := services.NewVoteService(
		repository.NewMemoryVoteRepository(),
		repository.NewMemoryHistoryRepository(),
		userRepo,
		logger,
	)

	h := NewHandler(cfg, logger, signer, userService, voteService)
	return &testEnv{
		handler: h,
		router:  h.SetupRouter(nil),
		users:   userService,
		votes:   voteService,
	}
}

// perform sends a request through the router. The ip is used as the remote
// address; cookie, when set, is passed as the raw Cookie header.
func (e *testEnv) perform(method, path, ip, cookie string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.RemoteAddr = ip + ":12345"
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login registers nothing; it assumes the account exists and returns the
// raw login cookie value.
func (e *testEnv) login(t *testing.T, identifier, password string) string {
	t.Helper()
	w := e.perform("POST", "/api/login", "", "", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	assert.NotEmpty(t, cookie)
	// Strip the attributes, keep the name=value pair.
	return cookie[:bytes.IndexByte([]byte(cookie), ';')]
}

func TestHealth(t *testing.T) {
	env := setupTestEnv()
	w := env.perform("GET", "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	env := setupTestEnv()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	limiter := services.NewIPRateLimiter(0, 1, logger)

	r := gin.New()
	r.POST("/limited", env.handler.RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("POST", "/limited", nil)
	req.RemoteAddr = "192.168.0.1:12345"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
