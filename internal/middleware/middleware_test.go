package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/cashflow-service/internal/ratelimit"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func signToken(t *testing.T, secret, subject string, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func echoClient() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, ClientID(r.Context()))
	})
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware("secret")(echoClient())
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + signToken(t, "secret", "erp", jwt.SigningMethodHS256, future), http.StatusOK, "erp"},
		{"lowercase scheme", "bearer " + signToken(t, "secret", "erp", jwt.SigningMethodHS256, future), http.StatusOK, "erp"},
		{"missing", "", http.StatusUnauthorized, `{"error":"missing bearer token"}`},
		{"not bearer", "Basic abc", http.StatusUnauthorized, `{"error":"missing bearer token"}`},
		{"wrong secret", "Bearer " + signToken(t, "other", "erp", jwt.SigningMethodHS256, future), http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"expired", "Bearer " + signToken(t, "secret", "erp", jwt.SigningMethodHS256, time.Now().Add(-time.Minute)), http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"wrong method", "Bearer " + signToken(t, "secret", "erp", jwt.SigningMethodHS512, future), http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"no subject", "Bearer " + signToken(t, "secret", "", jwt.SigningMethodHS256, future), http.StatusUnauthorized, `{"error":"invalid token"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewRegistry(0.001, 2)
	h := RateLimitMiddleware(limiter, quietLogger())(echoClient())

	call := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if client != "" {
			req = req.WithContext(WithClientID(req.Context(), client))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
	assert.Equal(t, http.StatusOK, call(""))
	assert.Equal(t, 3, limiter.Len())
}

func TestLoggingAndRecovery(t *testing.T) {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(quietLogger()), RecoveryMiddleware(quietLogger()))
	r.HandleFunc("/teapot/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot/1", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
