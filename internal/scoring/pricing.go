package scoring

// tierSpreads is the premium over the bank's base rate per credit status, in percentage points.
var tierSpreads = map[string]float64{
	"Excellent": 1.0,
	"Good":      2.5,
	"Fair":      4.5,
	"Poor":      7.0,
}

// IndicativeRate prices a loan as the reference key rate plus the bank margin plus the spread of
// the borrower's credit status. All values are percents per annum.
func IndicativeRate(keyRate, bankMargin float64, creditStatus string) float64 {
	spread, ok := tierSpreads[creditStatus]
	if !ok {
		spread = tierSpreads["Poor"]
	}
	return keyRate + bankMargin + spread
}
