package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigilant-link/internal/config"
	"vigilant-link/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetUserID(r.Context())))
	})
}

func TestOptionalJWT(t *testing.T) {
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "valid token",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice", Issuer: "vigilant", ExpiresAt: future}),
			want:   "alice",
		},
		{
			name:   "lowercase scheme",
			header: "bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "bob", Issuer: "vigilant"}),
			want:   "bob",
		},
		{name: "missing header", header: "", want: ""},
		{name: "not bearer", header: "Basic Zm9vOmJhcg==", want: ""},
		{name: "garbage token", header: "Bearer not.a.jwt", want: ""},
		{
			name:   "wrong secret",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "mallory", Issuer: "vigilant"}),
			want:   "",
		},
		{
			name:   "expired",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice", Issuer: "vigilant", ExpiresAt: past}),
			want:   "",
		},
		{
			name:   "wrong issuer",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice", Issuer: "elsewhere"}),
			want:   "",
		},
		{
			name:   "wrong algorithm",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice", Issuer: "vigilant"}),
			want:   "",
		},
	}

	h := OptionalJWT(testSecret, "vigilant")(echoUser())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestOptionalJWT_NoSecretIsAnonymous(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	OptionalJWT("", "")(echoUser()).ServeHTTP(rec, req)
	assert.Empty(t, rec.Body.String())
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, 0, time.Time{}, f.err
	}
	remaining := int64(0)
	if f.allowed {
		remaining = limit - 1
	}
	return f.allowed, remaining, time.Now().Add(window), nil
}

func TestRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, RequestsPerMinute: 10}
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	t.Run("allowed", func(t *testing.T) {
		f := &fakeLimiter{allowed: true}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1"
		RateLimiter(f, cfg, logger.NewNop())(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"ip:10.0.0.1"}, f.keys)
	})

	t.Run("denied", func(t *testing.T) {
		f := &fakeLimiter{allowed: false}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserID(req.Context(), "alice"))
		RateLimiter(f, cfg, logger.NewNop())(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
		assert.Equal(t, []string{"user:alice"}, f.keys)
	})

	t.Run("connections from one host share a bucket", func(t *testing.T) {
		f := &fakeLimiter{allowed: true}
		for _, addr := range []string{"10.0.0.2:51000", "10.0.0.2:51001", "[2001:db8::1]:443"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = addr
			RateLimiter(f, cfg, logger.NewNop())(ok).ServeHTTP(httptest.NewRecorder(), req)
		}
		assert.Equal(t, []string{"ip:10.0.0.2", "ip:10.0.0.2", "ip:2001:db8::1"}, f.keys)
	})

	t.Run("store error fails open", func(t *testing.T) {
		f := &fakeLimiter{err: errors.New("redis down")}
		rec := httptest.NewRecorder()
		RateLimiter(f, cfg, logger.NewNop())(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("preflight skipped", func(t *testing.T) {
		f := &fakeLimiter{}
		rec := httptest.NewRecorder()
		RateLimiter(f, cfg, logger.NewNop())(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, f.keys)
	})
}

func TestLogger_DoesNotLogBody(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})

	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", bytes.NewBufferString(`{"message":"secret otp 123456"}`))
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":202`)
	assert.Contains(t, out, `"path":"/api/v1/scan"`)
	assert.NotContains(t, out, "otp")
}
