package scoring

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const (
	MinCreditScore = 300
	MaxCreditScore = 900

	creditConfidence = 0.88
	overdueThreshold = 15.0

	noRiskFactors     = "No significant risk factors identified"
	noRecommendations = "Maintain current financial discipline"
)

var suggestedProducts = []string{"MSME Working Capital Loan", "Business Credit Line"}

// CreditInput is everything credit scoring reads about one business.
type CreditInput struct {
	BusinessName       string
	Industry           string
	CreditScore        int
	AnnualTurnover     float64
	OverdueReceivables float64
	Ratios             models.Ratios
}

// CreditInputFrom pulls the scoring inputs out of an API request.
func CreditInputFrom(req models.CreditRequest) CreditInput {
	return CreditInput{
		BusinessName:       req.BusinessName,
		Industry:           req.IndustryType,
		CreditScore:        req.CreditScore,
		AnnualTurnover:     req.AnnualTurnover,
		OverdueReceivables: req.OverdueReceivables,
		Ratios:             req.RatiosOf(),
	}
}

// loanTier is one bureau score band.
type loanTier struct {
	min         int
	status      string
	eligibility string
	ceiling     float64
	riskFactor  string
}

var loanTiers = []loanTier{
	{750, "Excellent", "High - Eligible for premium rates and higher limits", 0.5, ""},
	{650, "Good", "Moderate - Standard terms applicable", 0.35, ""},
	{550, "Fair", "Limited - May require collateral or guarantor", 0.20, "Credit score below optimal range (550-649)"},
	{0, "Poor", "Restricted - Consider specialized MSME schemes", 0.10, "Critical: Credit score below 550 indicates high default risk"},
}

func tierFor(creditScore int) loanTier {
	for _, t := range loanTiers {
		if creditScore >= t.min {
			return t
		}
	}
	return loanTiers[len(loanTiers)-1]
}

// Engine scores businesses against a fixed benchmark table. It holds no per-call state.
type Engine struct {
	benchmarks Benchmarks
}

// NewEngine creates a scoring engine. A nil table means the built-in defaults.
func NewEngine(benchmarks Benchmarks) *Engine {
	if benchmarks == nil {
		benchmarks = DefaultBenchmarks()
	}
	return &Engine{benchmarks: benchmarks}
}

// Benchmarks returns the engine's table.
func (e *Engine) Benchmarks() Benchmarks {
	return e.benchmarks
}

// ScoreCredit produces the health score, rating, loan tier and findings for one business.
func (e *Engine) ScoreCredit(in CreditInput) (*models.ScoreBundle, error) {
	if in.CreditScore < MinCreditScore || in.CreditScore > MaxCreditScore {
		return nil, fmt.Errorf("%w: credit score %d outside %d..%d", ErrInvalidInput, in.CreditScore, MinCreditScore, MaxCreditScore)
	}
	if in.AnnualTurnover < 0 || in.OverdueReceivables < 0 {
		return nil, fmt.Errorf("%w: turnover and overdue receivables must be non-negative", ErrInvalidInput)
	}

	bench, industry := e.benchmarks.Lookup(in.Industry)
	health := HealthScore(in.Ratios, bench)
	tier := tierFor(in.CreditScore)

	var risks, recs []string
	if tier.riskFactor != "" {
		risks = append(risks, tier.riskFactor)
	}

	if cr := in.Ratios.CurrentRatio; cr != nil {
		switch {
		case *cr < 1.0:
			risks = append(risks, fmt.Sprintf("Liquidity crisis: Current ratio %.2f < 1.0", *cr))
			recs = append(recs, "URGENT: Improve short-term liquidity within 30 days")
		case *cr < bench.CurrentRatio:
			risks = append(risks, fmt.Sprintf("Below industry standard: Current ratio %.2f vs %v", *cr, bench.CurrentRatio))
			recs = append(recs, "Consider renegotiating payment terms with suppliers")
		default:
			recs = append(recs, fmt.Sprintf("Healthy liquidity position (CR: %.2f)", *cr))
		}
	}

	if de := in.Ratios.DebtEquity; de != nil {
		switch {
		case *de > 2.0:
			risks = append(risks, fmt.Sprintf("Over-leveraged: D/E ratio %.2f > 2.0", *de))
			recs = append(recs, "Prioritize debt reduction before new borrowing")
		case *de > bench.DebtEquity:
			recs = append(recs, fmt.Sprintf("Monitor debt levels: D/E %.2f above industry median", *de))
		default:
			recs = append(recs, fmt.Sprintf("Conservative leverage (D/E: %.2f)", *de))
		}
	}

	if pm := in.Ratios.ProfitMargin; pm != nil {
		switch {
		case *pm < 0:
			risks = append(risks, "Negative profit margin - operating at a loss")
			recs = append(recs, "URGENT: Cost reduction and pricing review required")
		case *pm < bench.ProfitMargin*0.5:
			risks = append(risks, fmt.Sprintf("Low profitability: %.1f%% vs industry %v%%", *pm, bench.ProfitMargin))
		}
	}

	if overdue := OverduePercent(in.OverdueReceivables, in.AnnualTurnover); overdue > overdueThreshold {
		risks = append(risks, fmt.Sprintf("High receivables risk: %.1f%% of turnover is overdue", overdue))
		recs = append(recs, "Implement stricter credit control processes")
	}

	rating := Rating(in.CreditScore, health)
	bundle := &models.ScoreBundle{
		CreditScore:          in.CreditScore,
		CreditStatus:         tier.status,
		FinancialHealthScore: health,
		CreditRating:         rating,
		RiskFactors:          risks,
		Recommendations:      recs,
		LoanEligibility:      tier.eligibility,
		MaxLoanAmount:        in.AnnualTurnover * tier.ceiling,
		SuggestedProducts:    append([]string(nil), suggestedProducts...),
		IndustryComparison:   fmt.Sprintf("Comparison for %s industry benchmarks completed.", industry),
		Confidence:           creditConfidence,
	}
	bundle.Assessment = assessment(in, industry, bundle)

	if len(bundle.RiskFactors) == 0 {
		bundle.RiskFactors = []string{noRiskFactors}
	}
	if len(bundle.Recommendations) == 0 {
		bundle.Recommendations = []string{noRecommendations}
	}
	return bundle, nil
}

// OverduePercent is overdue receivables as a percent of turnover, zero without turnover.
func OverduePercent(overdue, turnover float64) float64 {
	if turnover <= 0 {
		return 0
	}
	return overdue / turnover * 100
}

func healthLabel(score int) string {
	switch {
	case score >= 75:
		return "Strong"
	case score >= 50:
		return "Moderate"
	}
	return "Weak"
}

func assessment(in CreditInput, industry string, b *models.ScoreBundle) string {
	p := message.NewPrinter(language.English)

	var sb strings.Builder
	fmt.Fprintf(&sb, "### Executive Summary: %s\n\n", in.BusinessName)
	fmt.Fprintf(&sb, "**Credit Rating**: %s\n", b.CreditRating)
	fmt.Fprintf(&sb, "**Credit Score**: %d/900 (%s)\n", b.CreditScore, b.CreditStatus)
	fmt.Fprintf(&sb, "**Financial Health Score**: %d/100\n", b.FinancialHealthScore)
	sb.WriteString(p.Sprintf("**Annual Turnover**: ₹%.0f\n", in.AnnualTurnover))
	fmt.Fprintf(&sb, "**Industry**: %s\n\n", industry)
	sb.WriteString("### Key Findings:\n")
	fmt.Fprintf(&sb, "- Business demonstrates a **%s** credit profile.\n", strings.ToLower(b.CreditStatus))
	fmt.Fprintf(&sb, "- Identified %d key risk factors requiring attention.\n", len(b.RiskFactors))
	fmt.Fprintf(&sb, "- Overall financial health is **%s**.", healthLabel(b.FinancialHealthScore))
	return sb.String()
}
