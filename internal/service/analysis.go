package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/bookkeeping"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/narrative"
	"github.com/Dan9191/cashflow-service/internal/scoring"
	"github.com/sirupsen/logrus"
)

// AssessRisk scores operational risk and alerts on the critical tier
func (s *Service) AssessRisk(ctx context.Context, req *models.RiskRequest) (*models.RiskBundle, error) {
	bundle, err := scoring.ScoreRisk(scoring.RiskInputFrom(*req))
	if err != nil {
		return nil, err
	}
	bundle.AnalysisTimestamp = s.now()
	metrics.IncScoring("risk", string(bundle.OverallRisk))

	prompt := narrative.RiskPrompt(req.BusinessName, req.CashFlowTrend, req.DaysCashRunway, bundle.RiskScore)
	if text := s.narrate(ctx, prompt, req.Language); text != "" {
		bundle.RiskSummary = text
	}

	if bundle.OverallRisk == models.RiskCritical && s.alerts != nil {
		// Alert delivery never fails the assessment.
		if err := s.alerts.SendRiskAlert(req, bundle); err != nil {
			s.log.Warnf("Risk alert for %s not delivered: %v", req.BusinessName, err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"business": req.BusinessName,
		"risk":     bundle.OverallRisk,
		"score":    bundle.RiskScore,
	}).Info("Risk assessment completed")
	return bundle, nil
}

// AnalyzeSpending compares current and previous period spend
func (s *Service) AnalyzeSpending(ctx context.Context, req *models.SpendingRequest) (*models.SpendingAnalysis, error) {
	a, err := bookkeeping.AnalyzeSpending(*req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	s.log.WithFields(logrus.Fields{"user_id": req.UserID, "trend": a.Comparison.Trend}).Info("Spending analysis completed")
	return a, nil
}

// Categorize assigns bookkeeping categories, preferring the narrative model and falling back to rules
func (s *Service) Categorize(ctx context.Context, req *models.CategorizeRequest) (*models.CategorizeResponse, error) {
	resp := &models.CategorizeResponse{
		BatchID:           req.BatchID,
		AnalysisTimestamp: s.now(),
	}

	source := "rules"
	if prompt, err := bookkeeping.CategorizePrompt(req.Industry, req.Transactions); err == nil {
		text, err := s.narrator.Narrate(ctx, narrative.Request{
			Prompt:   prompt,
			Task:     bookkeeping.CategorizeTask(req.Industry),
			Language: req.Language,
		})
		if err == nil {
			if cats, perr := bookkeeping.ParseCategories(text, req.Transactions); perr == nil {
				resp.Categories = cats
				source = "model"
			} else {
				s.log.Warnf("Discarding model categorization: %v", perr)
			}
		}
	}
	if resp.Categories == nil {
		resp.Categories = bookkeeping.Categorize(req.Transactions)
	}

	s.log.WithFields(logrus.Fields{"batch_id": req.BatchID, "count": len(resp.Categories), "source": source}).Info("Transactions categorized")
	return resp, nil
}
