package forecast

import "math"

// confidenceAt decays base linearly with the 1-indexed horizon step, floored at MinConfidence.
func confidenceAt(step int, base float64, p Params) float64 {
	return math.Max(p.MinConfidence, base-float64(step)*p.DecayRate)
}

// varianceMargin is the interval half-width used by the regression strategy.
func varianceMargin(step int, confidence, std float64) float64 {
	return (1 - confidence) * std * math.Sqrt(float64(step))
}
