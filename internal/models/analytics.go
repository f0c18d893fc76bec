package models

// MonthlyProjectionRequest represents a request for a month-granularity trend projection
type MonthlyProjectionRequest struct {
	BusinessName       string    `json:"business_name" validate:"required"`
	IndustryType       string    `json:"industry_type"`
	HistoricalRevenue  []float64 `json:"historical_revenue" validate:"dive,gte=0"`
	HistoricalExpenses []float64 `json:"historical_expenses" validate:"dive,gte=0"`
	ForecastMonths     int       `json:"forecast_months" validate:"gte=0,lte=24"`
	Language           string    `json:"language"`
}

// MonthlyProjection represents the month-granularity trend projection
type MonthlyProjection struct {
	RevenueForecast   []float64 `json:"revenue_forecast"`
	ExpenseForecast   []float64 `json:"expense_forecast"`
	NetProfitForecast []float64 `json:"net_profit_forecast"`
	TrendAnalysis     string    `json:"trend_analysis"`
	GrowthRate        float64   `json:"growth_rate"` // percent per month
	Recommendations   []string  `json:"recommendations"`
	Confidence        float64   `json:"confidence"`
	ForecastPeriod    string    `json:"forecast_period"`
}

// SpendingRequest represents period-over-period spending input
type SpendingRequest struct {
	UserID        int64              `json:"user_id"`
	TotalSpend    float64            `json:"total_spend" validate:"gte=0"`
	PreviousSpend float64            `json:"previous_spend" validate:"gte=0"`
	Categories    map[string]float64 `json:"categories"`
	Language      string             `json:"language"`
}

// SpendingComparison represents the current vs previous period comparison
type SpendingComparison struct {
	CurrentPeriod    float64 `json:"current_period"`
	PreviousPeriod   float64 `json:"previous_period"`
	ChangePercentage float64 `json:"change_percentage"`
	Trend            string  `json:"trend"`
}

// SpendingAnalysis represents spending analytics
type SpendingAnalysis struct {
	Summary        string             `json:"summary"`
	Insights       []string           `json:"insights"`
	Comparison     SpendingComparison `json:"comparison"`
	TopCategory    string             `json:"top_category,omitempty"`
	Recommendation string             `json:"recommendation"`
	Confidence     float64            `json:"confidence"`
}
