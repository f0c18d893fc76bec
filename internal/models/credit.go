package models

import "time"

// Ratios holds the optional financial ratios of a business. Nil means "not reported".
type Ratios struct {
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	QuickRatio   *float64 `json:"quick_ratio,omitempty"`
	DebtEquity   *float64 `json:"debt_equity_ratio,omitempty"`
	ProfitMargin *float64 `json:"profit_margin,omitempty"` // percent
}

// CreditRequest represents a credit analysis request for one business
type CreditRequest struct {
	BusinessName       string   `json:"business_name" validate:"required"`
	IndustryType       string   `json:"industry_type" validate:"required"`
	AnnualTurnover     float64  `json:"annual_turnover" validate:"gte=0"`
	CreditScore        int      `json:"credit_score" validate:"gte=300,lte=900"`
	CurrentRatio       *float64 `json:"current_ratio,omitempty"`
	QuickRatio         *float64 `json:"quick_ratio,omitempty"`
	DebtEquityRatio    *float64 `json:"debt_equity_ratio,omitempty"`
	ProfitMargin       *float64 `json:"profit_margin,omitempty"`
	OverdueReceivables float64  `json:"overdue_receivables" validate:"gte=0"`
	TotalDebt          float64  `json:"total_debt" validate:"gte=0"`
	TotalAssets        *float64 `json:"total_assets,omitempty"`
	GSTComplianceScore *int     `json:"gst_compliance_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	YearsInBusiness    *int     `json:"years_in_business,omitempty"`
	Language           string   `json:"language"`
}

// RatiosOf extracts the ratio bundle from a request.
func (r CreditRequest) RatiosOf() Ratios {
	return Ratios{
		CurrentRatio: r.CurrentRatio,
		QuickRatio:   r.QuickRatio,
		DebtEquity:   r.DebtEquityRatio,
		ProfitMargin: r.ProfitMargin,
	}
}

// ScoreBundle represents the outcome of credit scoring
type ScoreBundle struct {
	CreditScore          int      `json:"credit_score"`
	CreditStatus         string   `json:"credit_status"`
	FinancialHealthScore int      `json:"financial_health_score"`
	CreditRating         string   `json:"credit_rating"`
	RiskFactors          []string `json:"risk_factors"`
	Recommendations      []string `json:"recommendations"`
	LoanEligibility      string   `json:"loan_eligibility"`
	MaxLoanAmount        float64  `json:"max_loan_amount"`
	SuggestedProducts    []string `json:"suggested_products"`
	IndustryComparison   string   `json:"industry_comparison"`
	Assessment           string   `json:"assessment"`
	Confidence           float64  `json:"confidence"`
}

// CreditAnalysis represents the credit analysis response
type CreditAnalysis struct {
	ScoreBundle
	IndicativeRate    *float64  `json:"indicative_rate,omitempty"` // percent per annum
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
}

// BatchCreditRequest represents a batch of credit analyses
type BatchCreditRequest struct {
	Businesses []CreditRequest `json:"businesses" validate:"required,min=1,dive"`
	Language   string          `json:"language"`
}

// BatchSummary holds aggregate figures for a batch
type BatchSummary struct {
	TotalCount         int            `json:"total_count"`
	AverageConfidence  float64        `json:"average_confidence"`
	AverageHealthScore float64        `json:"average_health_score"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

// BatchCreditResponse represents the batch analysis response
type BatchCreditResponse struct {
	Results           []CreditAnalysis `json:"results"`
	SummaryStatistics BatchSummary     `json:"summary_statistics"`
	ProcessingTime    float64          `json:"processing_time"` // seconds
}
