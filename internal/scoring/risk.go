package scoring

import (
	"fmt"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const riskConfidence = 0.91

// Cash-flow trend values accepted by ScoreRisk.
const (
	TrendPositive = "positive"
	TrendStable   = "stable"
	TrendNegative = "negative"
)

// RiskInput holds the operational signals of one business.
type RiskInput struct {
	BusinessName   string
	CashFlowTrend  string
	DaysCashRunway int
	LoanDefaults   int
}

// RiskInputFrom pulls the scoring inputs out of an API request.
func RiskInputFrom(req models.RiskRequest) RiskInput {
	return RiskInput{
		BusinessName:   req.BusinessName,
		CashFlowTrend:  req.CashFlowTrend,
		DaysCashRunway: req.DaysCashRunway,
		LoanDefaults:   req.LoanDefaults,
	}
}

var riskTiers = []struct {
	min     int
	level   models.RiskLevel
	urgency string
}{
	{70, models.RiskCritical, "IMMEDIATE ACTION REQUIRED"},
	{50, models.RiskHigh, "Action needed within 1 week"},
	{25, models.RiskMedium, "Address within 30 days"},
	{0, models.RiskLow, "Continue monitoring"},
}

// ScoreRisk adds up the operational risk signals into a 0-100 score and tier.
func ScoreRisk(in RiskInput) (*models.RiskBundle, error) {
	trend := strings.ToLower(strings.TrimSpace(in.CashFlowTrend))
	if trend != TrendPositive && trend != TrendStable && trend != TrendNegative {
		return nil, fmt.Errorf("%w: cash flow trend %q is not positive, stable or negative", ErrInvalidInput, in.CashFlowTrend)
	}
	if in.DaysCashRunway < 0 || in.LoanDefaults < 0 {
		return nil, fmt.Errorf("%w: runway and defaults must be non-negative", ErrInvalidInput)
	}

	var (
		score   int
		factors []models.RiskFactor
		steps   []string
	)

	switch trend {
	case TrendNegative:
		score += 30
		factors = append(factors, models.RiskFactor{Factor: "Negative Cash Flow", Severity: "HIGH", Description: "Unsustainable burn rate"})
		steps = append(steps, "Immediate cost reduction audit")
	case TrendStable:
		score += 10
	}

	switch {
	case in.DaysCashRunway < 30:
		score += 40
		factors = append(factors, models.RiskFactor{
			Factor:      "Critical Cash Runway",
			Severity:    "CRITICAL",
			Description: fmt.Sprintf("Only %d days remaining", in.DaysCashRunway),
		})
		steps = append(steps, "Arrange emergency bridge financing")
	case in.DaysCashRunway < 90:
		score += 15
	}

	if in.LoanDefaults > 0 {
		score += 30
		factors = append(factors, models.RiskFactor{
			Factor:      "Loan Defaults",
			Severity:    "CRITICAL",
			Description: fmt.Sprintf("%d historical defaults", in.LoanDefaults),
		})
		steps = append(steps, "Engage lenders for debt restructuring")
	}

	tier := riskTiers[len(riskTiers)-1]
	for _, t := range riskTiers {
		if score >= t.min {
			tier = t
			break
		}
	}

	if len(factors) == 0 {
		factors = []models.RiskFactor{{Factor: "No significant risks", Severity: "LOW", Description: "Healthy profile"}}
	}
	if len(steps) == 0 {
		steps = []string{"Regular financial monitoring"}
	}

	summary := fmt.Sprintf("### Risk Assessment: %s\n\n**Overall Risk Level**: %s\n**Risk Score**: %d/100",
		in.BusinessName, strings.ToUpper(string(tier.level)), score)

	return &models.RiskBundle{
		OverallRisk:     tier.level,
		RiskScore:       score,
		RiskSummary:     summary,
		RiskFactors:     factors,
		MitigationSteps: steps,
		UrgencyLevel:    tier.urgency,
		Confidence:      riskConfidence,
	}, nil
}
