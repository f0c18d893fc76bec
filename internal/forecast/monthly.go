package forecast

import (
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const (
	maxProjectionMonths   = 24
	defaultMonthlyRate    = 0.02
	defaultMonthlyRevenue = 100000
	defaultMonthlyExpense = 80000
)

// ProjectMonthly compounds the last observed month forward by the growth rate of the revenue
// series. Expenses grow at 80% of the revenue rate.
func ProjectMonthly(revenue, expenses []float64, months int) (*models.MonthlyProjection, error) {
	if months < 1 || months > maxProjectionMonths {
		return nil, fmt.Errorf("%w: months must be within 1..%d, got %d", ErrInvalidInput, maxProjectionMonths, months)
	}
	for _, series := range [][]float64{revenue, expenses} {
		for i, v := range series {
			if v < 0 {
				return nil, fmt.Errorf("%w: value %d is negative", ErrInvalidInput, i)
			}
		}
	}

	rate := growthRate(revenue, defaultMonthlyRate)

	lastRev := float64(defaultMonthlyRevenue)
	if len(revenue) > 0 {
		lastRev = revenue[len(revenue)-1]
	}
	lastExp := float64(defaultMonthlyExpense)
	if len(expenses) > 0 {
		lastExp = expenses[len(expenses)-1]
	}

	p := &models.MonthlyProjection{
		RevenueForecast:   make([]float64, 0, months),
		ExpenseForecast:   make([]float64, 0, months),
		NetProfitForecast: make([]float64, 0, months),
	}
	for i := 0; i < months; i++ {
		lastRev *= 1 + rate
		lastExp *= 1 + rate*0.8
		p.RevenueForecast = append(p.RevenueForecast, money(lastRev))
		p.ExpenseForecast = append(p.ExpenseForecast, money(lastExp))
		p.NetProfitForecast = append(p.NetProfitForecast, money(lastRev-lastExp))
	}

	p.GrowthRate = money(rate * 100)
	p.TrendAnalysis = fmt.Sprintf("Projecting %.1f%% monthly growth based on historical trends.", rate*100)
	p.Recommendations = []string{"Maintain current growth trajectory", "Optimize operating expenses"}
	if rate < 0 {
		p.Recommendations = []string{"Investigate the revenue decline before committing new spend", "Optimize operating expenses"}
	}
	p.Confidence = 0.85
	p.ForecastPeriod = fmt.Sprintf("%d months", months)
	return p, nil
}
