package forecast

import (
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// commitmentBook holds scheduled receivables and payables keyed by due date.
type commitmentBook map[string]Estimate

func bookCommitments(commitments []models.Commitment) (commitmentBook, error) {
	book := make(commitmentBook, len(commitments))
	for i, c := range commitments {
		if c.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: commitments[%d] has no due date", ErrInvalidInput, i)
		}
		if c.Amount < 0 {
			return nil, fmt.Errorf("%w: commitments[%d] amount %.2f is negative", ErrInvalidInput, i, c.Amount)
		}
		kind, ok := models.ParseObligationType(c.Type)
		if !ok {
			return nil, fmt.Errorf("%w: commitments[%d] has unknown type %q", ErrInvalidInput, i, c.Type)
		}

		key := models.NewDate(c.DueDate.Time).String()
		e := book[key]
		if kind == models.ObligationReceivable {
			e.Revenue += c.Amount
		} else {
			e.Expense += c.Amount
		}
		book[key] = e
	}
	return book, nil
}

// inject adds the commitments due on d to e. Dates with nothing due leave e unchanged.
func (b commitmentBook) inject(d models.Date, e Estimate) Estimate {
	due, ok := b[d.String()]
	if !ok {
		return e
	}
	e.Revenue += due.Revenue
	e.Expense += due.Expense
	return e
}

// within reports whether any commitment falls in (anchor, anchor+horizon].
func (b commitmentBook) within(anchor models.Date, horizon int) bool {
	for i := 1; i <= horizon; i++ {
		if _, ok := b[anchor.AddDays(i).String()]; ok {
			return true
		}
	}
	return false
}
