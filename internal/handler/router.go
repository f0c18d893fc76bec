package handler

import (
	"net/http"

	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/Dan9191/cashflow-service/internal/ratelimit"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter wires public and protected routes
func NewRouter(h *Handler, jwtSecret string, limiter *ratelimit.Registry, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RecoveryMiddleware(log), middleware.LoggingMiddleware(log))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Protected routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(jwtSecret), middleware.RateLimitMiddleware(limiter, log))
	api.HandleFunc("/forecast", h.Forecast).Methods(http.MethodPost)
	api.HandleFunc("/forecast/export", h.ExportForecast).Methods(http.MethodPost)
	api.HandleFunc("/forecast/monthly", h.MonthlyProjection).Methods(http.MethodPost)
	api.HandleFunc("/credit-analysis", h.CreditAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/credit-analysis/report", h.CreditReport).Methods(http.MethodPost)
	api.HandleFunc("/credit-analysis/batch", h.BatchCreditAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/risk-assessment", h.RiskAssessment).Methods(http.MethodPost)
	api.HandleFunc("/spending-analysis", h.SpendingAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/transactions/categorize", h.CategorizeTransactions).Methods(http.MethodPost)
	api.HandleFunc("/feedback", h.Feedback).Methods(http.MethodPost)
	api.HandleFunc("/cache", h.ClearCache).Methods(http.MethodDelete)

	return r
}
