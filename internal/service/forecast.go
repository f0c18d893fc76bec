package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-service/internal/export"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/narrative"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// forecastKey identifies a forecast for caching. Today pins the anchor of empty-history runs.
type forecastKey struct {
	Request models.ForecastRequest `json:"request"`
	Today   string                 `json:"today,omitempty"`
}

// Forecast projects the requested horizon of daily revenue and expense
func (s *Service) Forecast(ctx context.Context, req *models.ForecastRequest) (*models.ForecastResponse, error) {
	horizon := req.Horizon
	if horizon == 0 {
		horizon = s.config.Forecast.DefaultHorizon
	}
	if horizon > s.config.Forecast.MaxHorizon {
		return nil, fmt.Errorf("%w: horizon %d exceeds %d", ErrInvalidInput, horizon, s.config.Forecast.MaxHorizon)
	}
	kind, err := forecast.ParseStrategy(req.Strategy, len(req.History))
	if err != nil {
		return nil, err
	}

	key := forecastKey{Request: *req}
	key.Request.Horizon = horizon
	key.Request.Strategy = string(kind)
	if len(req.History) == 0 {
		key.Today = models.NewDate(s.now()).String()
	}

	resp, hit, err := cachedCall(s, "forecast", key, func() (*models.ForecastResponse, error) {
		return s.runForecast(ctx, req, horizon, kind)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		resp.RequestID = uuid.NewString()
	}
	return resp, nil
}

func (s *Service) runForecast(ctx context.Context, req *models.ForecastRequest, horizon int, kind forecast.StrategyKind) (*models.ForecastResponse, error) {
	start := time.Now()
	res, err := s.engine.Forecast(req.History, req.Commitments, horizon, kind)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveForecast(string(kind), false, err, duration)
		return nil, err
	}
	metrics.ObserveForecast(string(res.Strategy), res.FellBack, nil, duration)

	resp := &models.ForecastResponse{
		RequestID:      uuid.NewString(),
		Strategy:       string(res.Strategy),
		FellBack:       res.FellBack,
		Predictions:    res.Predictions,
		Explainability: res.Explainability,
	}

	prompt := narrative.ForecastPrompt(req.BusinessID, horizon, resp.Strategy, resp.Explainability.Summary)
	if text := s.narrate(ctx, prompt, req.Language); text != "" {
		resp.Explainability.Summary = text
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  resp.RequestID,
		"business_id": req.BusinessID,
		"strategy":    resp.Strategy,
		"fell_back":   resp.FellBack,
		"horizon":     horizon,
		"duration_ms": duration.Milliseconds(),
	}).Info("Forecast generated")
	return resp, nil
}

// ProjectMonthly produces a month-granularity trend projection
func (s *Service) ProjectMonthly(ctx context.Context, req *models.MonthlyProjectionRequest) (*models.MonthlyProjection, error) {
	months := req.ForecastMonths
	if months == 0 {
		months = 3
	}

	key := *req
	key.ForecastMonths = months
	p, _, err := cachedCall(s, "forecast-monthly", key, func() (*models.MonthlyProjection, error) {
		p, err := forecast.ProjectMonthly(req.HistoricalRevenue, req.HistoricalExpenses, months)
		if err != nil {
			return nil, err
		}
		prompt := narrative.MonthlyPrompt(req.BusinessName, months, p.GrowthRate)
		if text := s.narrate(ctx, prompt, req.Language); text != "" {
			p.TrendAnalysis = text
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"business": req.BusinessName, "months": months}).Info("Monthly projection generated")
	return p, nil
}

// ExportForecast renders a forecast as an XLSX workbook
func (s *Service) ExportForecast(ctx context.Context, req *models.ForecastRequest) ([]byte, error) {
	resp, err := s.Forecast(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := export.ForecastXLSX(req, resp)
	metrics.ObserveExport("xlsx", err)
	if err != nil {
		return nil, fmt.Errorf("failed to export forecast: %w", err)
	}
	return data, nil
}
