package bookkeeping

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const spendingConfidence = 0.87

// AnalyzeSpending compares total spend against the previous period.
func AnalyzeSpending(req models.SpendingRequest) (*models.SpendingAnalysis, error) {
	if req.TotalSpend < 0 || req.PreviousSpend < 0 {
		return nil, fmt.Errorf("spend totals must be non-negative")
	}

	diff := req.TotalSpend - req.PreviousSpend
	percent := 0.0
	if req.PreviousSpend > 0 {
		percent = diff / req.PreviousSpend * 100
	}

	trend := "stable"
	insight := "Spending is unchanged against the previous period"
	switch {
	case diff > 0:
		trend = "up"
	case diff < 0:
		trend = "down"
	}
	if trend != "stable" {
		insight = fmt.Sprintf("Spending is %s by %.1f%%", trend, math.Abs(percent))
	}

	p := message.NewPrinter(language.English)
	out := &models.SpendingAnalysis{
		Summary:  p.Sprintf("Total spend: ₹%.0f", req.TotalSpend),
		Insights: []string{insight},
		Comparison: models.SpendingComparison{
			CurrentPeriod:    req.TotalSpend,
			PreviousPeriod:   req.PreviousSpend,
			ChangePercentage: percent,
			Trend:            trend,
		},
		Recommendation: "Maintain budget discipline",
		Confidence:     spendingConfidence,
	}

	if top, amount, ok := topCategory(req.Categories); ok {
		out.TopCategory = top
		if req.TotalSpend > 0 {
			out.Insights = append(out.Insights, fmt.Sprintf("%s is the largest category at %.1f%% of spend", top, amount/req.TotalSpend*100))
		}
	}
	if percent > 20 {
		out.Recommendation = "Review discretionary spending; costs rose sharply against the previous period"
	}
	return out, nil
}

func topCategory(categories map[string]float64) (string, float64, bool) {
	if len(categories) == 0 {
		return "", 0, false
	}
	names := make([]string, 0, len(categories))
	for k := range categories {
		names = append(names, k)
	}
	sort.Strings(names)

	best := names[0]
	for _, n := range names[1:] {
		if categories[n] > categories[best] {
			best = n
		}
	}
	return best, categories[best], true
}
