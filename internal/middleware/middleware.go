package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/ratelimit"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const clientIDKey contextKey = "clientID"

// ClientID returns the authenticated caller stored by AuthMiddleware
func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}

// WithClientID stores an authenticated caller in ctx
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// AuthMiddleware validates HS256 bearer tokens issued by Login
func AuthMiddleware(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims := &jwt.RegisteredClaims{}
			_, err := jwt.ParseWithClaims(parts[1], claims, func(*jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || claims.Subject == "" {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), claims.Subject)))
		})
	}
}

// RateLimitMiddleware rejects callers that exhausted their token bucket. Unauthenticated
// requests are keyed by remote address.
func RateLimitMiddleware(limiter *ratelimit.Registry, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := ClientID(r.Context())
			if caller == "" {
				caller = "addr:" + r.RemoteAddr
			}
			if !limiter.Allow(caller) {
				metrics.IncRateLimited()
				log.WithFields(logrus.Fields{"caller": caller, "path": r.URL.Path}).Warn("Rate limit exceeded")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs each request and records its latency by route template
func LoggingMiddleware(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			route := ""
			if cur := mux.CurrentRoute(r); cur != nil {
				route, _ = cur.GetPathTemplate()
			}
			metrics.ObserveHTTP(route, rec.status, duration)

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": duration.Milliseconds(),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Error("HTTP request failed")
				return
			}
			entry.Info("HTTP request")
		})
	}
}

// RecoveryMiddleware turns handler panics into 500 responses
func RecoveryMiddleware(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					log.WithFields(logrus.Fields{"path": r.URL.Path, "panic": rv}).Error("Panic recovered")
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
