package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-directory/internal/data/entity"
	"support-directory/internal/identity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubProvider struct {
	identity.Provider
	sessions map[string]identity.Session
	err      error
}

func (p *stubProvider) GetSession(_ context.Context, token string) (*identity.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	s, ok := p.sessions[token]
	if !ok {
		return nil, identity.ErrSessionNotFound
	}
	return &s, nil
}

type stubResolver struct {
	actor *entity.Actor
	err   error
}

func (r stubResolver) CurrentActor(context.Context) (*entity.Actor, error) {
	return r.actor, r.err
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc.def", "abc.def", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, ok := BearerToken(r)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestAuthSession(t *testing.T) {
	userID := uuid.New()
	provider := &stubProvider{sessions: map[string]identity.Session{
		"good": {ID: "s1", UserID: userID, Token: "good", ExpiresAt: time.Now().Add(time.Hour)},
	}}

	var seenUser uuid.UUID
	var seenToken string
	handler := AuthSession(provider, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = utils.GetUserIDFromContext(r.Context())
		seenToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/services", nil)
		r.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, seenUser)
		assert.Equal(t, "good", seenToken)
	})

	t.Run("unknown session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/services", nil)
		r.Header.Set("Authorization", "Bearer stale")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/services", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("identity backend down", func(t *testing.T) {
		down := AuthSession(&stubProvider{err: errors.New("redis: connection refused")}, zap.NewNop())(http.HandlerFunc(okHandler))
		r := httptest.NewRequest(http.MethodGet, "/api/admin/services", nil)
		r.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		down.ServeHTTP(w, r)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestAdminTier(t *testing.T) {
	tests := []struct {
		name     string
		resolver stubResolver
		want     int
	}{
		{"moderator", stubResolver{actor: &entity.Actor{ID: uuid.New(), Role: entity.RoleModerator}}, http.StatusOK},
		{"super admin", stubResolver{actor: &entity.Actor{ID: uuid.New(), Role: entity.RoleSuperAdmin}}, http.StatusOK},
		{"provider", stubResolver{actor: &entity.Actor{ID: uuid.New(), Role: entity.RoleProvider}}, http.StatusForbidden},
		{"no actor", stubResolver{}, http.StatusUnauthorized},
		{"resolver failure", stubResolver{err: errors.New("db down")}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			AdminTier(tt.resolver, zap.NewNop())(http.HandlerFunc(okHandler)).
				ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLoggerRedactsSearch(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := Logger(zap.New(core))(http.HandlerFunc(okHandler))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/users?search=jane.doe%40example.org&page=2", nil))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	query := entries[0].ContextMap()["query"].(string)
	assert.NotContains(t, query, "jane.doe")
	assert.Contains(t, query, "search=REDACTED")
	assert.Contains(t, query, "page=2")
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS("https://admin.example.org")(http.HandlerFunc(okHandler))

	r := httptest.NewRequest(http.MethodOptions, "/api/admin/services", nil)
	r.Header.Set("Origin", "https://admin.example.org")
	r.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/api/admin/services", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// countingLimiter allows budget hits per key.
type countingLimiter struct {
	budget int
	hits   map[string]int
	err    error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (time.Duration, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.hits[key]++
	if l.hits[key] > l.budget {
		return 1500 * time.Millisecond, apperr.New(apperr.CodeRateLimited, "Too many attempts, try again later")
	}
	return 0, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{budget: 2, hits: map[string]int{}}
	h := RateLimit(limiter, "admin_login", zap.NewNop())(http.HandlerFunc(okHandler))

	login := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, login("10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusOK, login("10.0.0.1:5001").Code)

	w := login("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, 3, limiter.hits["admin_login:10.0.0.1"])

	assert.Equal(t, http.StatusOK, login("10.0.0.2:5000").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis: connection refused")}
	h := RateLimit(limiter, "admin_login", zap.NewNop())(http.HandlerFunc(okHandler))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
