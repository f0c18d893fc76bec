package scoring

import "github.com/Dan9191/cashflow-service/internal/models"

const healthBase = 50

// HealthScore rates a ratio bundle against an industry profile on a 0-100 scale. Missing ratios
// contribute nothing.
func HealthScore(r models.Ratios, b Benchmark) int {
	score := healthBase

	if cr := r.CurrentRatio; cr != nil {
		switch {
		case *cr >= b.CurrentRatio:
			score += 20
		case *cr >= b.CurrentRatio*0.8:
			score += 15
		case *cr >= 1.0:
			score += 10
		}
	}

	if de := r.DebtEquity; de != nil {
		switch {
		case *de <= b.DebtEquity:
			score += 20
		case *de <= b.DebtEquity*1.2:
			score += 15
		case *de <= 2.0:
			score += 10
		}
	}

	if pm := r.ProfitMargin; pm != nil {
		switch {
		case *pm >= b.ProfitMargin:
			score += 10
		case *pm >= b.ProfitMargin*0.7:
			score += 7
		case *pm > 0:
			score += 4
		}
	}

	return min(100, max(0, score))
}
