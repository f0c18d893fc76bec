package scoring

// ratingTiers are the seven credit rating labels with their minimum combined score.
var ratingTiers = []struct {
	min   float64
	label string
}{
	{85, "AAA (Excellent)"},
	{75, "AA (Very Good)"},
	{65, "A (Good)"},
	{55, "BBB (Fair)"},
	{45, "BB (Below Average)"},
	{35, "B (Poor)"},
}

const bottomRating = "C (Very Poor)"

// CombinedScore weighs the bureau score and the health score equally on a 0-100 scale.
func CombinedScore(creditScore, healthScore int) float64 {
	return float64(creditScore)/900*50 + float64(healthScore)/100*50
}

// Rating maps a bureau score and a health score to a rating label.
func Rating(creditScore, healthScore int) string {
	combined := CombinedScore(creditScore, healthScore)
	for _, t := range ratingTiers {
		if combined >= t.min {
			return t.label
		}
	}
	return bottomRating
}

// RatingLabels lists every label from best to worst.
func RatingLabels() []string {
	out := make([]string, 0, len(ratingTiers)+1)
	for _, t := range ratingTiers {
		out = append(out, t.label)
	}
	return append(out, bottomRating)
}
