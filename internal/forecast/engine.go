package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Result is a complete forecast run.
type Result struct {
	// Strategy is the strategy that produced the estimates, after any fallback.
	Strategy       StrategyKind
	FellBack       bool
	Predictions    []models.PredictionPoint
	Explainability models.Explainability
}

// Engine runs the forecasting pipeline. It keeps no state between calls and is safe for
// concurrent use.
type Engine struct {
	params Params
	clock  Clock
}

// NewEngine constructs an Engine. A nil clock means SystemClock.
func NewEngine(params Params, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{params: params, clock: clock}
}

// Params returns the engine's tuning.
func (e *Engine) Params() Params {
	return e.params
}

// Forecast projects horizon days of revenue and expense. It returns exactly horizon points or an
// error wrapping ErrInvalidInput or ErrInsufficientData.
func (e *Engine) Forecast(history []models.HistoryPoint, commitments []models.Commitment, horizon int, kind StrategyKind) (*Result, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least 1, got %d", ErrInvalidInput, horizon)
	}
	if e.params.MaxHorizon > 0 && horizon > e.params.MaxHorizon {
		return nil, fmt.Errorf("%w: horizon %d exceeds %d", ErrInvalidInput, horizon, e.params.MaxHorizon)
	}
	if kind == "" {
		kind, _ = ParseStrategy("", len(history))
	}

	series, err := Aggregate(history)
	if err != nil {
		return nil, err
	}
	book, err := bookCommitments(commitments)
	if err != nil {
		return nil, err
	}

	strategy, fellBack, err := e.selectStrategy(kind, history, series)
	if err != nil {
		return nil, err
	}

	anchor := series.Last()
	if anchor.IsZero() {
		anchor = models.NewDate(e.clock.Now())
	}

	predictions := make([]models.PredictionPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		day := anchor.AddDays(i)
		base := strategy.Produce(i, DeriveFeatures(day))
		base.Revenue = money(base.Revenue)
		base.Expense = money(base.Expense)

		confidence := confidenceAt(i, strategy.BaseConfidence(), e.params)
		lower, upper := strategy.Band(i, base.Revenue, confidence)

		final := book.inject(day, base)
		predictions = append(predictions, models.PredictionPoint{
			Date:       day,
			Revenue:    final.Revenue,
			Expense:    final.Expense,
			Confidence: ratio(confidence),
			LowerBound: money(lower),
			UpperBound: money(upper),
		})
	}

	return &Result{
		Strategy:       strategy.Kind(),
		FellBack:       fellBack,
		Predictions:    predictions,
		Explainability: strategy.Explain(book.within(anchor, horizon)),
	}, nil
}

// selectStrategy builds the requested strategy, degrading a failed regression fit to trend.
func (e *Engine) selectStrategy(kind StrategyKind, history []models.HistoryPoint, series *DailySeries) (Strategy, bool, error) {
	switch kind {
	case StrategyTrend:
		return newTrendStrategy(history, series, e.params), false, nil
	case StrategyRegression:
		r, err := newRegressionStrategy(series, e.params)
		if err == nil {
			return r, false, nil
		}
		if errors.Is(err, ErrComputationFailure) {
			return newTrendStrategy(history, series, e.params), true, nil
		}
		return nil, false, err
	}
	return nil, false, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, kind)
}
