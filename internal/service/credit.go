package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Dan9191/cashflow-service/internal/export"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/narrative"
	"github.com/Dan9191/cashflow-service/internal/scoring"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxBatchSize caps the businesses scored per batch; extra entries are ignored
	MaxBatchSize = 10
	// keyRateTimeout bounds the reference rate lookup inside a credit analysis
	keyRateTimeout = 5 * time.Second
)

// AnalyzeCredit scores one business and prices an indicative loan rate
func (s *Service) AnalyzeCredit(ctx context.Context, req *models.CreditRequest) (*models.CreditAnalysis, error) {
	a, hit, err := cachedCall(s, "credit", req, func() (*models.CreditAnalysis, error) {
		return s.analyzeCredit(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		a.AnalysisTimestamp = s.now()
	}
	return a, nil
}

func (s *Service) analyzeCredit(ctx context.Context, req *models.CreditRequest) (*models.CreditAnalysis, error) {
	bundle, err := s.scorer.ScoreCredit(scoring.CreditInputFrom(*req))
	if err != nil {
		return nil, err
	}
	metrics.IncScoring("credit", bundle.CreditStatus)
	metrics.IncCreditRating(bundle.CreditRating)

	a := &models.CreditAnalysis{
		ScoreBundle:       *bundle,
		AnalysisTimestamp: s.now(),
	}
	if rate, ok := s.referenceRate(ctx); ok {
		r := math.Round(scoring.IndicativeRate(rate, s.config.BankMargin, bundle.CreditStatus)*100) / 100
		a.IndicativeRate = &r
	}

	prompt := narrative.CreditPrompt(req.BusinessName, req.IndustryType, req.AnnualTurnover, bundle.CreditRating, bundle.FinancialHealthScore)
	if text := s.narrate(ctx, prompt, req.Language); text != "" {
		a.Assessment = text
	}

	s.log.WithFields(logrus.Fields{
		"business": req.BusinessName,
		"rating":   a.CreditRating,
		"status":   a.CreditStatus,
		"health":   a.FinancialHealthScore,
	}).Info("Credit analysis completed")
	return a, nil
}

// referenceRate returns the key rate when it can be obtained quickly
func (s *Service) referenceRate(ctx context.Context) (float64, bool) {
	if s.rates == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, keyRateTimeout)
	defer cancel()
	rate, err := s.KeyRate(ctx)
	if err != nil {
		s.log.Warnf("Key rate unavailable, skipping indicative pricing: %v", err)
		return 0, false
	}
	return rate, true
}

// CreditReport renders a credit analysis as a PDF document
func (s *Service) CreditReport(ctx context.Context, req *models.CreditRequest) ([]byte, error) {
	a, err := s.AnalyzeCredit(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := export.CreditPDF(req, a)
	metrics.ObserveExport("pdf", err)
	if err != nil {
		return nil, fmt.Errorf("failed to export credit report: %w", err)
	}
	return data, nil
}

// AnalyzeCreditBatch scores up to MaxBatchSize businesses concurrently
func (s *Service) AnalyzeCreditBatch(ctx context.Context, req *models.BatchCreditRequest) (*models.BatchCreditResponse, error) {
	start := time.Now()
	businesses := req.Businesses
	if len(businesses) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", ErrInvalidInput)
	}
	if len(businesses) > MaxBatchSize {
		s.log.Warnf("Batch of %d truncated to %d businesses", len(businesses), MaxBatchSize)
		businesses = businesses[:MaxBatchSize]
	}

	results := make([]models.CreditAnalysis, len(businesses))
	g, gctx := errgroup.WithContext(ctx)
	for i := range businesses {
		b := businesses[i]
		if b.Language == "" {
			b.Language = req.Language
		}
		g.Go(func() error {
			a, err := s.AnalyzeCredit(gctx, &b)
			if err != nil {
				return fmt.Errorf("business %d (%s): %w", i, b.BusinessName, err)
			}
			results[i] = *a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &models.BatchCreditResponse{
		Results:           results,
		SummaryStatistics: summarize(results),
		ProcessingTime:    math.Round(time.Since(start).Seconds()*1000) / 1000,
	}
	s.log.WithFields(logrus.Fields{"count": len(results), "seconds": resp.ProcessingTime}).Info("Batch credit analysis completed")
	return resp, nil
}

func summarize(results []models.CreditAnalysis) models.BatchSummary {
	sum := models.BatchSummary{
		TotalCount:         len(results),
		RatingDistribution: make(map[string]int),
	}
	if len(results) == 0 {
		return sum
	}
	var conf, health float64
	for _, r := range results {
		conf += r.Confidence
		health += float64(r.FinancialHealthScore)
		sum.RatingDistribution[r.CreditRating]++
	}
	n := float64(len(results))
	sum.AverageConfidence = math.Round(conf/n*1000) / 1000
	sum.AverageHealthScore = math.Round(health/n*10) / 10
	return sum
}
