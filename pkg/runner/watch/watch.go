// Package watch reports transcript changes made by any process.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/store"
)

type Watch struct {
	Service *app.Service
	KV      store.KV
	Out     io.Writer
	JSON    bool
}

type eventJSON struct {
	Type  string `json:"type"`
	Day   string `json:"day,omitempty"`
	Turns int    `json:"turns"`
}

func (w *Watch) Do(ctx context.Context) error {
	if w.Service == nil || w.KV == nil {
		return errors.New("watch: no journal")
	}
	out := w.Out
	if out == nil {
		out = color.Output
	}

	events, err := w.Service.Watch(ctx, w.KV)
	if err != nil {
		return err
	}

	day := color.New(color.Bold)
	faint := color.New(color.Faint)
	for ev := range events {
		switch ev.Type {
		case store.EventDayChanged:
			turns, err := w.Service.Day(ctx, ev.Day)
			if err != nil {
				log.Warn().Err(err).Stringer("day", ev.Day).Msg("watch: reading day")
				continue
			}
			if w.JSON {
				w.emit(out, eventJSON{Type: "day", Day: ev.Day.String(), Turns: len(turns)})
				continue
			}
			_, _ = day.Fprint(out, ev.Day.String())
			_, _ = faint.Fprintf(out, " - %d turns\n", len(turns))
		case store.EventInvalidated:
			if w.JSON {
				w.emit(out, eventJSON{Type: "invalidated"})
				continue
			}
			_, _ = faint.Fprintln(out, "journal changed")
		}
	}
	return nil
}

func (w *Watch) emit(out io.Writer, v eventJSON) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(out, string(b))
}
