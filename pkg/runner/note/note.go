// Package note adds a written note to any day without calling the model.
package note

import (
	"context"
	"errors"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/timeutil"
)

type Note struct {
	Service *app.Service
	Printer *printers.PrettyPrint
	Day     timeutil.Bucket
	Text    string
}

func (n *Note) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("note: no journal")
	}
	if n.Day.IsZero() {
		n.Day = n.Service.Today()
	}
	turns, err := n.Service.AddNote(ctx, n.Day, n.Text)
	if err != nil {
		return err
	}

	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.TitleWithCount(n.Day.String(), len(turns))
	pp.Transcript(turns...)
	return nil
}
