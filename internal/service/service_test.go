package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/cashflow-service/internal/cache"
	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/narrative"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/scoring"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

type fakeStore struct {
	mu       sync.Mutex
	clients  map[string]*models.APIClient
	feedback []*models.Feedback
	pingErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{clients: make(map[string]*models.APIClient)}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateAPIClient(_ context.Context, c *models.APIClient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c.ClientID]; ok {
		return repository.ErrDuplicate
	}
	c.ID = int64(len(f.clients) + 1)
	f.clients[c.ClientID] = c
	return nil
}

func (f *fakeStore) FindClientByClientID(_ context.Context, id string) (*models.APIClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, repository.ErrNotFound)
	}
	return c, nil
}

func (f *fakeStore) CreateFeedback(_ context.Context, fb *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb.ID = fmt.Sprintf("fb-%d", len(f.feedback)+1)
	f.feedback = append(f.feedback, fb)
	return nil
}

func (f *fakeStore) FeedbackStats(_ context.Context, conv string) (int, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n, sum int
	for _, fb := range f.feedback {
		if fb.ConversationID == conv {
			n++
			sum += fb.Rating
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return n, float64(sum) / float64(n), nil
}

type fakeNarrator struct {
	mu      sync.Mutex
	reply   func(req narrative.Request) (string, error)
	prompts []string
}

func (f *fakeNarrator) Narrate(_ context.Context, req narrative.Request) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()
	if f.reply == nil {
		return "", narrative.ErrUnavailable
	}
	return f.reply(req)
}

func (f *fakeNarrator) Status(context.Context) map[string]string {
	return map[string]string{"ollama": "offline"}
}

func (f *fakeNarrator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeRates struct {
	rate float64
	err  error
}

func (f fakeRates) GetKeyRate(context.Context) (float64, error) { return f.rate, f.err }
func (f fakeRates) CachedKeyRate(time.Duration) (float64, bool) { return 0, false }

type fakeAlerts struct {
	sent []string
	err  error
}

func (f *fakeAlerts) SendRiskAlert(req *models.RiskRequest, _ *models.RiskBundle) error {
	f.sent = append(f.sent, req.BusinessName)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		BankMargin: 5,
		Forecast: config.ForecastConfig{
			DefaultHorizon: 30,
			MaxHorizon:     366,
		},
	}
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }

func newTestService(t *testing.T, opts ...Option) (*Service, *fakeStore) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := newFakeStore()
	engine := forecast.NewEngine(forecast.DefaultParams(), fixedClock{})
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(store, log, testConfig(), engine, scoring.NewEngine(nil), opts...), store
}

func f64(v float64) *float64 { return &v }

func TestLogin(t *testing.T) {
	svc, store := newTestService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateAPIClient(context.Background(), &models.APIClient{ClientID: "erp", Name: "ERP", SecretHash: string(hash)}))

	token, err := svc.Login(context.Background(), "erp", "s3cret")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil },
		jwt.WithTimeFunc(func() time.Time { return testNow }))
	require.NoError(t, err)
	assert.Equal(t, "erp", claims.Subject)
	assert.Equal(t, testNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = svc.Login(context.Background(), "erp", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "ghost", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateClient(t *testing.T) {
	svc, store := newTestService(t)

	client, secret, err := svc.CreateClient(context.Background(), "erp", "ERP")
	require.NoError(t, err)
	assert.Len(t, secret, 64)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.clients["erp"].SecretHash), []byte(secret)))
	assert.Equal(t, int64(1), client.ID)

	_, _, err = svc.CreateClient(context.Background(), "erp", "ERP again")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	_, _, err = svc.CreateClient(context.Background(), "", "nameless")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func forecastRequest() *models.ForecastRequest {
	req := &models.ForecastRequest{BusinessID: "biz-1", Strategy: "trend"}
	start := models.MustDate("2024-05-01")
	for i := 0; i < 14; i++ {
		day := start.AddDays(i)
		req.History = append(req.History,
			models.HistoryPoint{Date: day, Amount: 1000 + float64(i*10), Type: "CREDIT"},
			models.HistoryPoint{Date: day, Amount: 600, Type: "DEBIT"},
		)
	}
	return req
}

func TestForecast_DefaultsHorizonAndNarrates(t *testing.T) {
	n := &fakeNarrator{reply: func(narrative.Request) (string, error) { return "Steady inflows ahead.", nil }}
	svc, _ := newTestService(t, WithNarrator(n))

	resp, err := svc.Forecast(context.Background(), forecastRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Predictions, 30)
	assert.Equal(t, "trend", resp.Strategy)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "Steady inflows ahead.", resp.Explainability.Summary)
	assert.Equal(t, "2024-05-15", resp.Predictions[0].Date.String())
}

func TestForecast_CacheHitReissuesRequestID(t *testing.T) {
	mem, err := cache.NewMemory(100, time.Hour)
	require.NoError(t, err)
	defer mem.Close()
	n := &fakeNarrator{}
	svc, _ := newTestService(t, WithCache(mem), WithNarrator(n))

	first, err := svc.Forecast(context.Background(), forecastRequest())
	require.NoError(t, err)
	second, err := svc.Forecast(context.Background(), forecastRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, n.calls())
	assert.NotEqual(t, first.RequestID, second.RequestID)
	assert.Equal(t, first.Predictions, second.Predictions)
	assert.Equal(t, 1, svc.CacheLen())
	assert.Equal(t, 1, svc.ClearCache())
	assert.Equal(t, 0, svc.CacheLen())
}

func TestForecast_Errors(t *testing.T) {
	svc, _ := newTestService(t)

	req := forecastRequest()
	req.Horizon = 400
	_, err := svc.Forecast(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = forecastRequest()
	req.Strategy = "arima"
	_, err = svc.Forecast(context.Background(), req)
	assert.ErrorIs(t, err, forecast.ErrInvalidInput)

	_, err = svc.Forecast(context.Background(), &models.ForecastRequest{Strategy: "regression", Horizon: 5})
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestProjectMonthly(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.ProjectMonthly(context.Background(), &models.MonthlyProjectionRequest{
		BusinessName:      "Acme",
		HistoricalRevenue: []float64{100000, 110000, 121000, 130000},
	})
	require.NoError(t, err)
	assert.Len(t, p.RevenueForecast, 3)
	assert.Equal(t, "3 months", p.ForecastPeriod)
	assert.Equal(t, "Projecting 7.5% monthly growth based on historical trends.", p.TrendAnalysis)
}

func creditRequest(name string, score int) models.CreditRequest {
	return models.CreditRequest{
		BusinessName:   name,
		IndustryType:   "RETAIL",
		AnnualTurnover: 1000000,
		CreditScore:    score,
		CurrentRatio:   f64(2.0),
	}
}

func TestAnalyzeCredit_IndicativeRateAndNarrative(t *testing.T) {
	n := &fakeNarrator{reply: func(narrative.Request) (string, error) { return "### Executive Summary\nSolid.", nil }}
	svc, _ := newTestService(t, WithKeyRates(fakeRates{rate: 16}), WithNarrator(n))

	req := creditRequest("Acme", 800)
	a, err := svc.AnalyzeCredit(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, "Excellent", a.CreditStatus)
	require.NotNil(t, a.IndicativeRate)
	assert.Equal(t, 22.0, *a.IndicativeRate)
	assert.Equal(t, "### Executive Summary\nSolid.", a.Assessment)
	assert.Equal(t, testNow, a.AnalysisTimestamp)
	assert.Equal(t, 500000.0, a.MaxLoanAmount)
}

func TestAnalyzeCredit_CacheHitRestampsAnalysis(t *testing.T) {
	mem, err := cache.NewMemory(100, time.Hour)
	require.NoError(t, err)
	defer mem.Close()

	now := testNow
	svc, _ := newTestService(t, WithCache(mem), WithClock(func() time.Time { return now }))

	req := creditRequest("Acme", 800)
	first, err := svc.AnalyzeCredit(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, testNow, first.AnalysisTimestamp)

	now = testNow.Add(10 * time.Minute)
	second, err := svc.AnalyzeCredit(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, now, second.AnalysisTimestamp)
	assert.Equal(t, first.CreditScore, second.CreditScore)
	assert.Equal(t, first.Assessment, second.Assessment)
	assert.Equal(t, 1, svc.CacheLen())
}

func TestAnalyzeCredit_DegradesWithoutCollaborators(t *testing.T) {
	svc, _ := newTestService(t, WithKeyRates(fakeRates{err: errors.New("cbr down")}))

	req := creditRequest("Acme", 600)
	a, err := svc.AnalyzeCredit(context.Background(), &req)
	require.NoError(t, err)
	assert.Nil(t, a.IndicativeRate)
	assert.Contains(t, a.Assessment, "Acme")

	req.CreditScore = 200
	_, err = svc.AnalyzeCredit(context.Background(), &req)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestAnalyzeCreditBatch(t *testing.T) {
	svc, _ := newTestService(t)

	req := &models.BatchCreditRequest{Language: "hi"}
	for i := 0; i < 12; i++ {
		score := 800
		if i%2 == 1 {
			score = 500
		}
		req.Businesses = append(req.Businesses, creditRequest(fmt.Sprintf("biz-%d", i), score))
	}

	resp, err := svc.AnalyzeCreditBatch(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Results, MaxBatchSize)
	for i, r := range resp.Results {
		assert.Contains(t, r.Assessment, fmt.Sprintf("biz-%d", i))
	}

	sum := resp.SummaryStatistics
	assert.Equal(t, MaxBatchSize, sum.TotalCount)
	assert.InDelta(t, 0.88, sum.AverageConfidence, 1e-9)
	var rated int
	for _, n := range sum.RatingDistribution {
		rated += n
	}
	assert.Equal(t, MaxBatchSize, rated)
	assert.GreaterOrEqual(t, resp.ProcessingTime, 0.0)
}

func TestAnalyzeCreditBatch_Errors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AnalyzeCreditBatch(context.Background(), &models.BatchCreditRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	req := &models.BatchCreditRequest{Businesses: []models.CreditRequest{creditRequest("ok", 700), creditRequest("bad", 100)}}
	_, err = svc.AnalyzeCreditBatch(context.Background(), req)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
	assert.Contains(t, err.Error(), "bad")
}

func TestAssessRisk_CriticalAlerts(t *testing.T) {
	alerts := &fakeAlerts{err: errors.New("smtp down")}
	svc, _ := newTestService(t, WithAlerts(alerts))

	bundle, err := svc.AssessRisk(context.Background(), &models.RiskRequest{
		BusinessName:   "Acme",
		CashFlowTrend:  "negative",
		DaysCashRunway: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RiskCritical, bundle.OverallRisk)
	assert.Equal(t, testNow, bundle.AnalysisTimestamp)
	assert.Equal(t, []string{"Acme"}, alerts.sent)

	bundle, err = svc.AssessRisk(context.Background(), &models.RiskRequest{
		BusinessName:   "Calm",
		CashFlowTrend:  "positive",
		DaysCashRunway: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, bundle.OverallRisk)
	assert.Len(t, alerts.sent, 1)

	_, err = svc.AssessRisk(context.Background(), &models.RiskRequest{BusinessName: "x", CashFlowTrend: "sideways"})
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestCategorize(t *testing.T) {
	txs := []models.CategorizeTransaction{
		{ID: 1, Description: "Office rent June", Amount: 30000, Type: "DEBIT"},
		{ID: 2, Description: "Invoice 42 payment", Amount: 50000, Type: "CREDIT"},
	}

	t.Run("model answer", func(t *testing.T) {
		n := &fakeNarrator{reply: func(narrative.Request) (string, error) {
			return `Here you go: [{"id":1,"category":"Rent","sub_category":"Office","confidence":0.9,"is_tax_deductible":true},
{"id":2,"category":"Income","sub_category":"Sales","confidence":0.8}]`, nil
		}}
		svc, _ := newTestService(t, WithNarrator(n))
		resp, err := svc.Categorize(context.Background(), &models.CategorizeRequest{BatchID: "b1", Transactions: txs})
		require.NoError(t, err)
		require.Len(t, resp.Categories, 2)
		assert.Equal(t, "Office", resp.Categories[0].SubCategory)
		assert.Equal(t, "b1", resp.BatchID)
	})

	t.Run("unusable model answer falls back to rules", func(t *testing.T) {
		n := &fakeNarrator{reply: func(narrative.Request) (string, error) { return `[{"id":1,"category":"Rent","confidence":0.9}]`, nil }}
		svc, _ := newTestService(t, WithNarrator(n))
		resp, err := svc.Categorize(context.Background(), &models.CategorizeRequest{Transactions: txs})
		require.NoError(t, err)
		require.Len(t, resp.Categories, 2)
		assert.Equal(t, "Income", resp.Categories[1].Category)
	})
}

func TestAnalyzeSpending(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.AnalyzeSpending(context.Background(), &models.SpendingRequest{TotalSpend: 120, PreviousSpend: 100})
	require.NoError(t, err)
	assert.Equal(t, "up", a.Comparison.Trend)

	_, err = svc.AnalyzeSpending(context.Background(), &models.SpendingRequest{TotalSpend: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitFeedback(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SubmitFeedback(context.Background(), &models.Feedback{ConversationID: "c1", Rating: 5})
	require.NoError(t, err)
	receipt, err := svc.SubmitFeedback(context.Background(), &models.Feedback{ConversationID: "c1", Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, "fb-2", receipt.ID)
	assert.Equal(t, 2, receipt.Ratings)
	assert.Equal(t, 3.5, receipt.AverageRating)

	_, err = svc.SubmitFeedback(context.Background(), &models.Feedback{ConversationID: "c1", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHealth(t *testing.T) {
	svc, store := newTestService(t, WithNarrator(&fakeNarrator{}))

	h := svc.Health(context.Background())
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "offline", h.Narrative["ollama"])

	store.pingErr = errors.New("db down")
	h = svc.Health(context.Background())
	assert.Equal(t, "degraded", h.Status)
	assert.Equal(t, "offline", h.Database)
}

func TestKeyRate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.KeyRate(context.Background())
	assert.Error(t, err)

	svc, _ = newTestService(t, WithKeyRates(fakeRates{rate: 16}))
	rate, err := svc.KeyRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16.0, rate)
}
