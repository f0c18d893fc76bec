package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-service/internal/cache"
	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/narrative"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/scoring"
	"github.com/Dan9191/cashflow-service/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidInput marks requests rejected before reaching the engines
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned by Login for unknown clients and wrong secrets
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// keyRateMaxAge bounds how stale a cached reference rate may be before it is refetched
const keyRateMaxAge = 6 * time.Hour

// Store is the persistence the service needs
type Store interface {
	Ping(ctx context.Context) error
	CreateAPIClient(ctx context.Context, client *models.APIClient) error
	FindClientByClientID(ctx context.Context, clientID string) (*models.APIClient, error)
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
	FeedbackStats(ctx context.Context, conversationID string) (int, float64, error)
}

// KeyRateSource provides the central bank reference rate
type KeyRateSource interface {
	GetKeyRate(ctx context.Context) (float64, error)
	CachedKeyRate(maxAge time.Duration) (float64, bool)
}

// RiskAlerter is notified of critical risk assessments
type RiskAlerter interface {
	SendRiskAlert(req *models.RiskRequest, bundle *models.RiskBundle) error
}

// Service handles business logic
type Service struct {
	repo     Store
	log      *logrus.Logger
	config   *config.Config
	engine   *forecast.Engine
	scorer   *scoring.Engine
	narrator narrative.Narrator
	cache    cache.Cache
	rates    KeyRateSource
	alerts   RiskAlerter
	now      func() time.Time
}

// Option customises a Service
type Option func(*Service)

// WithNarrator enables narrative enrichment
func WithNarrator(n narrative.Narrator) Option {
	return func(s *Service) { s.narrator = n }
}

// WithCache enables response caching
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithKeyRates enables indicative loan pricing
func WithKeyRates(r KeyRateSource) Option {
	return func(s *Service) { s.rates = r }
}

// WithAlerts enables critical risk notifications
func WithAlerts(a RiskAlerter) Option {
	return func(s *Service) { s.alerts = a }
}

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, cfg *config.Config, engine *forecast.Engine, scorer *scoring.Engine, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		log:      log,
		config:   cfg,
		engine:   engine,
		scorer:   scorer,
		narrator: narrative.Disabled{},
		cache:    cache.Noop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates an API client and returns a JWT token
func (s *Service) Login(ctx context.Context, clientID, secret string) (string, error) {
	client, err := s.repo.FindClientByClientID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Errorf("Client lookup failed: %v", err)
			return "", err
		}
		return "", ErrInvalidCredentials
	}

	// Verify secret
	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		return "", ErrInvalidCredentials
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   client.ClientID,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(s.config.JWTTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Client logged in: %s", client.ClientID)
	return tokenString, nil
}

// CreateClient registers an API client and returns its plaintext secret, which is not stored
func (s *Service) CreateClient(ctx context.Context, clientID, name string) (*models.APIClient, string, error) {
	if clientID == "" || name == "" {
		return nil, "", fmt.Errorf("%w: client id and name are required", ErrInvalidInput)
	}
	secret, err := utils.GenerateSecret(32)
	if err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash secret: %w", err)
	}

	client := &models.APIClient{ClientID: clientID, Name: name, SecretHash: string(hashed)}
	if err := s.repo.CreateAPIClient(ctx, client); err != nil {
		return nil, "", err
	}

	s.log.Infof("API client created: %s", client.ClientID)
	return client, secret, nil
}

// FeedbackReceipt acknowledges stored feedback
type FeedbackReceipt struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Ratings       int     `json:"ratings"`
	AverageRating float64 `json:"average_rating"`
}

// SubmitFeedback persists a rating on a generated analysis
func (s *Service) SubmitFeedback(ctx context.Context, fb *models.Feedback) (*FeedbackReceipt, error) {
	if fb.Rating < 1 || fb.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be within 1..5", ErrInvalidInput)
	}
	if err := s.repo.CreateFeedback(ctx, fb); err != nil {
		return nil, err
	}

	receipt := &FeedbackReceipt{ID: fb.ID, Status: "success"}
	count, avg, err := s.repo.FeedbackStats(ctx, fb.ConversationID)
	if err != nil {
		s.log.Warnf("Feedback stats unavailable for %s: %v", fb.ConversationID, err)
	} else {
		receipt.Ratings = count
		receipt.AverageRating = avg
	}

	s.log.WithFields(logrus.Fields{"conversation_id": fb.ConversationID, "rating": fb.Rating}).Info("Feedback captured")
	return receipt, nil
}

// ClearCache drops every cached response and returns how many were dropped
func (s *Service) ClearCache() int {
	n := s.cache.Clear()
	metrics.SetCacheEntries(0)
	s.log.Infof("Cache cleared: %d entries", n)
	return n
}

// CacheLen reports the number of cached responses
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// HealthStatus describes service dependencies
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Narrative map[string]string `json:"narrative"`
}

// Health reports database and narrative provider reachability
func (s *Service) Health(ctx context.Context) *HealthStatus {
	h := &HealthStatus{
		Status:    "healthy",
		Timestamp: s.now(),
		Database:  "connected",
		Narrative: s.narrator.Status(ctx),
	}
	if err := s.repo.Ping(ctx); err != nil {
		h.Status = "degraded"
		h.Database = "offline"
	}
	return h
}

// KeyRate returns the central bank reference rate, fetching it when the cached value is stale
func (s *Service) KeyRate(ctx context.Context) (float64, error) {
	if s.rates == nil {
		return 0, fmt.Errorf("key rate source not configured")
	}
	if rate, ok := s.rates.CachedKeyRate(keyRateMaxAge); ok {
		return rate, nil
	}
	return s.rates.GetKeyRate(ctx)
}

// narrate returns replacement text, or "" when no provider answered
func (s *Service) narrate(ctx context.Context, prompt, language string) string {
	text, err := s.narrator.Narrate(ctx, narrative.Request{Prompt: prompt, Language: language})
	if err != nil {
		s.log.Debugf("Narrative unavailable: %v", err)
		return ""
	}
	return text
}

// cachedCall serves endpoint/params from the cache or computes and stores the result
func cachedCall[T any](s *Service, endpoint string, params any, compute func() (*T, error)) (*T, bool, error) {
	key, err := utils.Fingerprint(endpoint, params)
	if err != nil {
		return nil, false, err
	}
	if raw, ok := s.cache.Get(key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			metrics.IncCacheLookup(true)
			s.log.Debugf("Cache hit for %s", key)
			return &v, true, nil
		}
	}
	metrics.IncCacheLookup(false)

	v, err := compute()
	if err != nil {
		return nil, false, err
	}
	if raw, err := json.Marshal(v); err == nil {
		s.cache.Set(key, raw)
	}
	return v, false, nil
}
