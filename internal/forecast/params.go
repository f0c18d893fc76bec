package forecast

// BoostParams configures one gradient-boosted tree ensemble.
type BoostParams struct {
	Rounds         int
	LearningRate   float64
	MaxDepth       int
	Lambda         float64 // L2 regularisation on leaf weights
	MinChildWeight float64
}

// Params holds the tuning knobs of the forecasting pipeline.
type Params struct {
	// MaxHorizon caps the number of days a single Forecast call may project.
	MaxHorizon int

	TrendBaseConfidence      float64
	RegressionBaseConfidence float64
	DecayRate                float64
	MinConfidence            float64

	// TrendBand is the proportional half-width of the trend strategy's interval.
	TrendBand float64
	// TrendStep is the per-day slope of the revenue trend factor.
	TrendStep      float64
	DefaultInflow  float64
	DefaultOutflow float64
	// DefaultDailyRate applies when the revenue series cannot yield a growth rate.
	DefaultDailyRate float64
	// MaxDailyRate bounds the per-day compounding rate in either direction. Zero leaves it unbounded.
	MaxDailyRate float64

	// FallbackStd is the revenue deviation assumed when history has fewer than two days.
	FallbackStd float64

	Inflow  BoostParams
	Outflow BoostParams
}

// DefaultParams returns the production defaults.
func DefaultParams() Params {
	return Params{
		MaxHorizon:               3660,
		TrendBaseConfidence:      0.92,
		RegressionBaseConfidence: 0.95,
		DecayRate:                0.003,
		MinConfidence:            0.4,
		TrendBand:                0.15,
		TrendStep:                0.0005,
		DefaultInflow:            5000,
		DefaultOutflow:           3500,
		DefaultDailyRate:         0,
		MaxDailyRate:             0,
		FallbackStd:              100,
		Inflow: BoostParams{
			Rounds:         100,
			LearningRate:   0.1,
			MaxDepth:       6,
			Lambda:         1,
			MinChildWeight: 1,
		},
		Outflow: BoostParams{
			Rounds:         100,
			LearningRate:   0.05,
			MaxDepth:       6,
			Lambda:         1,
			MinChildWeight: 1,
		},
	}
}
