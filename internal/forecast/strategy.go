package forecast

import (
	"fmt"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// StrategyKind selects how the base estimate is produced.
type StrategyKind string

const (
	StrategyTrend      StrategyKind = "trend"
	StrategyRegression StrategyKind = "regression"
)

// ParseStrategy resolves a requested strategy name. An empty name picks trend for empty history
// and regression otherwise.
func ParseStrategy(name string, historyLen int) (StrategyKind, error) {
	switch StrategyKind(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		if historyLen == 0 {
			return StrategyTrend, nil
		}
		return StrategyRegression, nil
	case StrategyTrend:
		return StrategyTrend, nil
	case StrategyRegression:
		return StrategyRegression, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, name)
}

// Estimate is a base revenue/expense estimate for one day.
type Estimate struct {
	Revenue float64
	Expense float64
}

// Strategy produces base estimates for horizon days. Implementations are built per call and
// hold only what they derived from that call's inputs.
type Strategy interface {
	Kind() StrategyKind
	// Produce returns the estimate for 1-indexed horizon step with features f.
	Produce(step int, f Features) Estimate
	// Band returns the interval around a base revenue estimate.
	Band(step int, revenue, confidence float64) (lower, upper float64)
	BaseConfidence() float64
	Explain(hasCommitments bool) models.Explainability
}
