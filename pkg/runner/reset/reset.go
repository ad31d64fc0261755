// Package reset starts today's conversation over.
package reset

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/session"
)

type Reset struct {
	Session *session.Session
	Printer *printers.PrettyPrint
}

func (r *Reset) Do(ctx context.Context) error {
	if r.Session == nil {
		return errors.New("reset: no session")
	}
	p, err := r.Session.Reset(ctx)
	if err != nil {
		return err
	}
	if err := p.Wait(ctx); err != nil {
		if !session.IsSilent(err) {
			return err
		}
		log.Debug().Err(err).Msg("reset: no fresh starters")
	}

	pp := r.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Note("Cleared %s.", r.Session.Day())
	pp.Starters(r.Session.Starters())
	return nil
}
