// Package history lists recent days and how much was written on each.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/timeutil"
)

type History struct {
	Service *app.Service
	Printer *printers.PrettyPrint
	// Window is a span such as "2w"; empty means one week.
	Window string
	// Until is the last day shown; zero means today.
	Until timeutil.Bucket
	JSON  bool
}

func (h *History) Do(ctx context.Context) error {
	if h.Service == nil {
		return errors.New("history: no journal")
	}
	days, label, err := timeutil.ParseWindow(h.Window)
	if err != nil {
		return err
	}
	until := h.Until
	if until.IsZero() {
		until = h.Service.Today()
	}

	res, err := h.Service.Report(ctx, until, days)
	if err != nil {
		return err
	}

	if h.JSON {
		b, err := json.Marshal(res)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}

	pp := h.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Title(fmt.Sprintf("Last %s: %d of %d days journaled", label, res.Active, len(res.Days)))
	pp.History(res.Days)
	return nil
}
