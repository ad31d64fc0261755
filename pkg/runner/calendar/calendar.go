// Package calendar prints a month with the journaled days highlighted.
package calendar

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/printers"
)

type Calendar struct {
	Service *app.Service
	Printer *printers.PrettyPrint
	// Month is any instant in the month to show; zero means this month.
	Month time.Time
	// Months is how many consecutive months to print.
	Months int
}

func (c *Calendar) Do(ctx context.Context) error {
	if c.Service == nil {
		return errors.New("calendar: no journal")
	}
	today := c.Service.Today()
	month := c.Month
	if month.IsZero() {
		month = today.Start()
	}
	n := c.Months
	if n <= 0 {
		n = 1
	}
	pp := c.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}

	month = time.Date(month.Year(), month.Month(), 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < n; i++ {
		counts, err := c.Service.Month(ctx, month)
		if err != nil {
			return err
		}
		pp.Calendar(month, counts, today)
		month = month.AddDate(0, 1, 0)
	}
	return nil
}
