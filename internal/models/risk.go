package models

import "time"

// RiskLevel is the overall operational risk tier
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskRequest represents a risk assessment request
type RiskRequest struct {
	BusinessName      string  `json:"business_name" validate:"required"`
	IndustryType      string  `json:"industry_type"`
	CashFlowTrend     string  `json:"cash_flow_trend" validate:"required,oneof=positive stable negative"`
	OverdueAmount     float64 `json:"overdue_amount" validate:"gte=0"`
	DaysCashRunway    int     `json:"days_cash_runway" validate:"gte=0"`
	PendingGSTFilings int     `json:"pending_gst_filings" validate:"gte=0"`
	LoanDefaults      int     `json:"loan_defaults" validate:"gte=0"`
	Language          string  `json:"language"`
}

// RiskFactor is one severity-tagged finding
type RiskFactor struct {
	Factor      string `json:"factor"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// RiskBundle represents the outcome of operational risk scoring
type RiskBundle struct {
	OverallRisk       RiskLevel    `json:"overall_risk"`
	RiskScore         int          `json:"risk_score"`
	RiskSummary       string       `json:"risk_summary"`
	RiskFactors       []RiskFactor `json:"risk_factors"`
	MitigationSteps   []string     `json:"mitigation_steps"`
	UrgencyLevel      string       `json:"urgency_level"`
	Confidence        float64      `json:"confidence"`
	AnalysisTimestamp time.Time    `json:"analysis_timestamp"`
}
