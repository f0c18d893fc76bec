package forecast

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// regressionStrategy evaluates two boosted ensembles fit on calendar features, one for inflow and
// one for outflow.
type regressionStrategy struct {
	params  Params
	inflow  *booster
	outflow *booster
	std     float64
}

func newRegressionStrategy(series *DailySeries, p Params) (*regressionStrategy, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: regression needs transaction history", ErrInsufficientData)
	}

	inflows := series.Inflows()
	_, std := stat.PopMeanStdDev(inflows, nil)
	if series.Len() < 2 {
		std = p.FallbackStd
	} else if std == 0 {
		return nil, fmt.Errorf("%w: inflow history is constant", ErrComputationFailure)
	}

	x := series.matrix()
	in, err := fitBooster(x, inflows, p.Inflow)
	if err != nil {
		return nil, fmt.Errorf("inflow model: %w", err)
	}
	out, err := fitBooster(x, series.Outflows(), p.Outflow)
	if err != nil {
		return nil, fmt.Errorf("outflow model: %w", err)
	}

	return &regressionStrategy{
		params:  p,
		inflow:  in,
		outflow: out,
		std:     std,
	}, nil
}

func (r *regressionStrategy) Kind() StrategyKind { return StrategyRegression }

func (r *regressionStrategy) BaseConfidence() float64 { return r.params.RegressionBaseConfidence }

func (r *regressionStrategy) Produce(_ int, f Features) Estimate {
	v := f.vector()
	return Estimate{
		Revenue: math.Max(0, r.inflow.predict(v)),
		Expense: math.Max(0, r.outflow.predict(v)),
	}
}

func (r *regressionStrategy) Band(step int, revenue, confidence float64) (float64, float64) {
	margin := varianceMargin(step, confidence, r.std)
	return math.Max(0, revenue-margin), revenue + margin
}

func (r *regressionStrategy) Explain(hasCommitments bool) models.Explainability {
	imp := r.inflow.importance()
	drivers := make([]models.FeatureWeight, 0, numFeatures)
	for i, name := range FeatureNames {
		drivers = append(drivers, models.FeatureWeight{Feature: name, Weight: ratio(imp[i])})
	}
	sort.SliceStable(drivers, func(a, b int) bool { return drivers[a].Weight > drivers[b].Weight })

	primary := "Market Seasonality"
	if hasCommitments {
		primary = "Commitments"
	}
	return models.Explainability{
		Summary: fmt.Sprintf("Gradient-boosted ensemble over calendar features. Primary driver: %s.", primary),
		Drivers: drivers,
	}
}
