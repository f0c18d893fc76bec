package forecast

import (
	"github.com/cespare/xxhash/v2"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// dateNoise returns a multiplier in [0.95, 1.05) that depends only on the date string.
func dateNoise(d models.Date) float64 {
	h := xxhash.Sum64String(d.String())
	return 0.95 + 0.1*float64(h%100)/100
}
