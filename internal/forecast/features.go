package forecast

import (
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const numFeatures = 4

// FeatureNames lists the calendar predictors in vector order.
var FeatureNames = [numFeatures]string{"day_of_week", "is_weekend", "day_of_month", "is_month_end"}

// Features are the calendar predictors of one day.
type Features struct {
	Date       models.Date
	DayOfWeek  int // Monday=0 .. Sunday=6
	IsWeekend  int
	DayOfMonth int
	IsMonthEnd int
}

// DeriveFeatures computes the calendar predictors for d. Training rows and horizon rows both go
// through here.
func DeriveFeatures(d models.Date) Features {
	dow := (int(d.Weekday()) + 6) % 7
	f := Features{
		Date:       d,
		DayOfWeek:  dow,
		DayOfMonth: d.Day(),
	}
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		f.IsWeekend = 1
	}
	if f.DayOfMonth >= 25 {
		f.IsMonthEnd = 1
	}
	return f
}

func (f Features) vector() [numFeatures]float64 {
	return [numFeatures]float64{
		float64(f.DayOfWeek),
		float64(f.IsWeekend),
		float64(f.DayOfMonth),
		float64(f.IsMonthEnd),
	}
}
