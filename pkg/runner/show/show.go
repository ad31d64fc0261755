// Package show prints one day's transcript.
package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/timeutil"
)

type Show struct {
	Service *app.Service
	Printer *printers.PrettyPrint
	Day     timeutil.Bucket
	JSON    bool
}

type dayJSON struct {
	Day   timeutil.Bucket `json:"day"`
	Turns []entry.Turn    `json:"turns"`
}

func (s *Show) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("show: no journal")
	}
	if s.Day.IsZero() {
		s.Day = s.Service.Today()
	}
	turns, err := s.Service.Day(ctx, s.Day)
	if err != nil {
		return err
	}

	if s.JSON {
		b, err := json.Marshal(dayJSON{Day: s.Day, Turns: turns})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}

	pp := s.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.TitleWithCount(s.Day.String(), len(turns))
	pp.Transcript(turns...)
	return nil
}
