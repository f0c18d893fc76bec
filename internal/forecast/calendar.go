package forecast

import (
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// DailyRow is one calendar day of aggregated history.
type DailyRow struct {
	Date     models.Date
	Inflow   float64
	Outflow  float64
	Features Features
}

// DailySeries is a dense, gap-free run of days. It is built per call and never shared.
type DailySeries struct {
	Rows []DailyRow
}

// Aggregate sums history by day and flow type and fills every day between the first and last
// observation with zero rows. Empty history yields an empty series.
func Aggregate(history []models.HistoryPoint) (*DailySeries, error) {
	type sums struct{ in, out float64 }
	byDay := make(map[string]*sums, len(history))

	var first, last models.Date
	for i, h := range history {
		if h.Date.IsZero() {
			return nil, fmt.Errorf("%w: history[%d] has no date", ErrInvalidInput, i)
		}
		if h.Amount < 0 {
			return nil, fmt.Errorf("%w: history[%d] amount %.2f is negative", ErrInvalidInput, i, h.Amount)
		}
		flow, ok := models.ParseFlowType(h.Type)
		if !ok {
			return nil, fmt.Errorf("%w: history[%d] has unknown type %q", ErrInvalidInput, i, h.Type)
		}

		day := models.NewDate(h.Date.Time)
		s, ok := byDay[day.String()]
		if !ok {
			s = &sums{}
			byDay[day.String()] = s
		}
		if flow == models.FlowInflow {
			s.in += h.Amount
		} else {
			s.out += h.Amount
		}

		if first.IsZero() || day.Before(first.Time) {
			first = day
		}
		if last.IsZero() || day.After(last.Time) {
			last = day
		}
	}

	series := &DailySeries{}
	if len(byDay) == 0 {
		return series, nil
	}

	for day := first; !day.After(last.Time); day = day.AddDays(1) {
		row := DailyRow{Date: day, Features: DeriveFeatures(day)}
		if s, ok := byDay[day.String()]; ok {
			row.Inflow = s.in
			row.Outflow = s.out
		}
		series.Rows = append(series.Rows, row)
	}
	return series, nil
}

// Len returns the number of days in the series.
func (s *DailySeries) Len() int {
	return len(s.Rows)
}

// Last returns the final day, or the zero Date for an empty series.
func (s *DailySeries) Last() models.Date {
	if len(s.Rows) == 0 {
		return models.Date{}
	}
	return s.Rows[len(s.Rows)-1].Date
}

// Inflows returns the daily inflow sums in date order.
func (s *DailySeries) Inflows() []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Inflow
	}
	return out
}

// Outflows returns the daily outflow sums in date order.
func (s *DailySeries) Outflows() []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Outflow
	}
	return out
}

func (s *DailySeries) matrix() [][numFeatures]float64 {
	out := make([][numFeatures]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Features.vector()
	}
	return out
}
