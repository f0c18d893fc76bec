package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cashflow-service/internal/models"
)

func TestScoreRisk_Critical(t *testing.T) {
	b, err := ScoreRisk(RiskInput{BusinessName: "Acme", CashFlowTrend: "negative", DaysCashRunway: 10, LoanDefaults: 1})
	require.NoError(t, err)

	assert.Equal(t, 100, b.RiskScore)
	assert.Equal(t, models.RiskCritical, b.OverallRisk)
	assert.Equal(t, "IMMEDIATE ACTION REQUIRED", b.UrgencyLevel)
	assert.Equal(t, []models.RiskFactor{
		{Factor: "Negative Cash Flow", Severity: "HIGH", Description: "Unsustainable burn rate"},
		{Factor: "Critical Cash Runway", Severity: "CRITICAL", Description: "Only 10 days remaining"},
		{Factor: "Loan Defaults", Severity: "CRITICAL", Description: "1 historical defaults"},
	}, b.RiskFactors)
	assert.Equal(t, []string{
		"Immediate cost reduction audit",
		"Arrange emergency bridge financing",
		"Engage lenders for debt restructuring",
	}, b.MitigationSteps)
	assert.Equal(t, "### Risk Assessment: Acme\n\n**Overall Risk Level**: CRITICAL\n**Risk Score**: 100/100", b.RiskSummary)
	assert.Equal(t, 0.91, b.Confidence)
}

func TestScoreRisk_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		in      RiskInput
		score   int
		level   models.RiskLevel
		urgency string
	}{
		{"healthy", RiskInput{CashFlowTrend: "positive", DaysCashRunway: 180}, 0, models.RiskLow, "Continue monitoring"},
		{"stable short runway", RiskInput{CashFlowTrend: "stable", DaysCashRunway: 60}, 25, models.RiskMedium, "Address within 30 days"},
		{"negative short runway", RiskInput{CashFlowTrend: "Negative", DaysCashRunway: 89}, 45, models.RiskMedium, "Address within 30 days"},
		{"stable default", RiskInput{CashFlowTrend: "stable", DaysCashRunway: 200, LoanDefaults: 3}, 40, models.RiskMedium, "Address within 30 days"},
		{"runway only", RiskInput{CashFlowTrend: "positive", DaysCashRunway: 0}, 40, models.RiskMedium, "Address within 30 days"},
		{"stable runway crisis", RiskInput{CashFlowTrend: "stable", DaysCashRunway: 29}, 50, models.RiskHigh, "Action needed within 1 week"},
		{"negative defaults", RiskInput{CashFlowTrend: "negative", DaysCashRunway: 120, LoanDefaults: 2}, 60, models.RiskHigh, "Action needed within 1 week"},
		{"at critical threshold", RiskInput{CashFlowTrend: "negative", DaysCashRunway: 5}, 70, models.RiskCritical, "IMMEDIATE ACTION REQUIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ScoreRisk(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.score, b.RiskScore)
			assert.Equal(t, tt.level, b.OverallRisk)
			assert.Equal(t, tt.urgency, b.UrgencyLevel)
		})
	}
}

func TestScoreRisk_Placeholders(t *testing.T) {
	b, err := ScoreRisk(RiskInput{CashFlowTrend: "stable", DaysCashRunway: 45})
	require.NoError(t, err)
	assert.Equal(t, []models.RiskFactor{{Factor: "No significant risks", Severity: "LOW", Description: "Healthy profile"}}, b.RiskFactors)
	assert.Equal(t, []string{"Regular financial monitoring"}, b.MitigationSteps)
}

func TestScoreRisk_InvalidInput(t *testing.T) {
	for _, in := range []RiskInput{
		{CashFlowTrend: "volatile"},
		{CashFlowTrend: ""},
		{CashFlowTrend: "stable", DaysCashRunway: -1},
		{CashFlowTrend: "stable", LoanDefaults: -1},
	} {
		_, err := ScoreRisk(in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}
}
