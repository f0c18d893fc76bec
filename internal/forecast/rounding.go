package forecast

import "github.com/shopspring/decimal"

func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func ratio(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}
