package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// growthRate spreads the first-to-last change of values evenly over the number of points.
// It returns fallback when fewer than two points exist or the first value is not positive.
func growthRate(values []float64, fallback float64) float64 {
	if len(values) < 2 || values[0] <= 0 {
		return fallback
	}
	growth := (values[len(values)-1] - values[0]) / values[0]
	return growth / float64(len(values))
}

// trendStrategy compounds a baseline by a constant growth rate. It needs no training data.
type trendStrategy struct {
	params  Params
	inflow  float64
	outflow float64
	rate    float64
}

func newTrendStrategy(history []models.HistoryPoint, series *DailySeries, p Params) *trendStrategy {
	var inflows, outflows []float64
	for _, h := range history {
		switch flow, _ := models.ParseFlowType(h.Type); flow {
		case models.FlowInflow:
			inflows = append(inflows, h.Amount)
		case models.FlowOutflow:
			outflows = append(outflows, h.Amount)
		}
	}

	t := &trendStrategy{
		params:  p,
		inflow:  p.DefaultInflow,
		outflow: p.DefaultOutflow,
	}
	if len(inflows) > 0 {
		t.inflow = stat.Mean(inflows, nil)
	}
	if len(outflows) > 0 {
		t.outflow = stat.Mean(outflows, nil)
	}

	t.rate = growthRate(series.Inflows(), p.DefaultDailyRate)
	if p.MaxDailyRate > 0 {
		t.rate = math.Max(-p.MaxDailyRate, math.Min(p.MaxDailyRate, t.rate))
	}
	return t
}

func (t *trendStrategy) Kind() StrategyKind { return StrategyTrend }

func (t *trendStrategy) BaseConfidence() float64 { return t.params.TrendBaseConfidence }

func (t *trendStrategy) Produce(step int, f Features) Estimate {
	n := float64(step)
	noise := dateNoise(f.Date)
	trend := 1 + n*t.params.TrendStep
	return Estimate{
		Revenue: t.inflow * math.Pow(1+t.rate, n) * trend * noise,
		Expense: t.outflow * math.Pow(1+t.rate*0.8, n) * noise,
	}
}

func (t *trendStrategy) Band(_ int, revenue, _ float64) (float64, float64) {
	lower := math.Max(0, revenue*(1-t.params.TrendBand))
	return lower, revenue * (1 + t.params.TrendBand)
}

func (t *trendStrategy) Explain(hasCommitments bool) models.Explainability {
	summary := fmt.Sprintf("Trend projection from a %.2f daily baseline at %.3f%% growth per day.", t.inflow, t.rate*100)
	if hasCommitments {
		summary += " Scheduled receivables and payables are layered on their due dates."
	}
	return models.Explainability{
		Summary: summary,
		Drivers: []models.FeatureWeight{
			{Feature: "Commitments", Weight: 0.45},
			{Feature: "Trend", Weight: 0.3},
			{Feature: "Baseline", Weight: 0.25},
		},
	}
}
