package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/journally/pkg/timeutil"
)

// readers bounds concurrent day loads.
const readers = 8

// DaySummary describes one day in a report.
type DaySummary struct {
	Day   timeutil.Bucket `json:"day"`
	Turns int             `json:"turns"`
	First string          `json:"first,omitempty"`
}

// ReportResult covers the days in [From, Until].
type ReportResult struct {
	From  timeutil.Bucket `json:"from"`
	Until timeutil.Bucket `json:"until"`
	Days  []DaySummary    `json:"days"`
	// Total is the number of turns across all days.
	Total int `json:"total"`
	// Active is the number of days with at least one turn.
	Active int `json:"active"`
}

// Report summarises the n days ending with last, oldest first.
func (s *Service) Report(ctx context.Context, last timeutil.Bucket, n int) (ReportResult, error) {
	if s.Journal == nil {
		return ReportResult{}, ErrNoJournal
	}
	days := timeutil.Window(last, n)
	rows := make([]DaySummary, len(days))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readers)
	for i, d := range days {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			turns, err := s.Journal.Get(d)
			if err != nil {
				return err
			}
			rows[i] = DaySummary{Day: d, Turns: len(turns)}
			if len(turns) > 0 {
				rows[i].First = turns[0].Text
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ReportResult{}, err
	}

	res := ReportResult{Days: rows}
	if len(days) > 0 {
		res.From, res.Until = days[0], days[len(days)-1]
	}
	for _, r := range rows {
		res.Total += r.Turns
		if r.Turns > 0 {
			res.Active++
		}
	}
	return res, nil
}
