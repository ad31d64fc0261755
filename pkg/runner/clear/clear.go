// Package clear erases every stored transcript.
package clear

import (
	"context"
	"errors"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/prompt"
)

type Clear struct {
	Service *app.Service
	Printer *printers.PrettyPrint
	Prompt  prompt.IO
	// Yes skips the confirmation prompt.
	Yes bool
}

func (c *Clear) Do(ctx context.Context) error {
	if c.Service == nil {
		return errors.New("clear: no journal")
	}
	pp := c.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}

	days, err := c.Service.Days(ctx)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		pp.Note("Nothing to clear.")
		return nil
	}

	if !c.Yes {
		ok, err := prompt.Confirm(c.Prompt, "Delete every journal entry")
		if err != nil && !prompt.Done(err) {
			return err
		}
		if !ok {
			pp.Note("Kept %d days.", len(days))
			return nil
		}
	}

	if err := c.Service.ClearAll(ctx); err != nil {
		return err
	}
	pp.Note("Cleared %d days.", len(days))
	return nil
}
