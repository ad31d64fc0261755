// Package usage reports today's model call quota.
package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/printers"
	gate "tableflip.dev/journally/pkg/usage"
)

type Usage struct {
	Gate    *gate.Gate
	Printer *printers.PrettyPrint
	Now     func() time.Time
	JSON    bool
}

type usageJSON struct {
	gate.Counter
	Remaining int `json:"remaining"`
}

func (u *Usage) Do(_ context.Context) error {
	if u.Gate == nil {
		return errors.New("usage: no gate")
	}
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	c := u.Gate.Counter(now())

	if u.JSON {
		b, err := json.Marshal(usageJSON{Counter: c, Remaining: c.Remaining()})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}

	pp := u.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Usage(c)
	return nil
}
