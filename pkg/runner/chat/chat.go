// Package chat runs today's journaling conversation in the terminal.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/prompt"
	"tableflip.dev/journally/pkg/session"
)

const (
	cmdQuit  = "/quit"
	cmdExit  = "/exit"
	cmdReset = "/reset"
)

// Chat drives a Session. With Message set it sends that one message and
// prints the reply; otherwise it prompts until the user quits.
type Chat struct {
	Session *session.Session
	Printer *printers.PrettyPrint
	Prompt  prompt.IO
	Message string
}

func (c *Chat) Do(ctx context.Context) error {
	if c.Session == nil {
		return errors.New("chat: no session")
	}
	if c.Printer == nil {
		c.Printer = &printers.PrettyPrint{}
	}

	// A one-shot message never shows starters, so none are fetched.
	if strings.TrimSpace(c.Message) != "" {
		if err := c.Session.Refresh(); err != nil {
			return err
		}
		return c.send(ctx, c.Message)
	}

	p, err := c.Session.Start(ctx)
	if err != nil {
		return err
	}
	if err := c.await(ctx, p); err != nil {
		return err
	}
	return c.interactive(ctx)
}

func (c *Chat) interactive(ctx context.Context) error {
	c.Printer.Title(c.Session.Day().String())
	c.Printer.Transcript(c.Session.Transcript()...)

	if err := c.offerStarters(); err != nil {
		return err
	}

	label := c.Printer.Emojis.User
	if label == "" {
		label = ">"
	}
	for {
		if err := c.Session.Refresh(); err != nil {
			return err
		}
		line, err := prompt.Line(c.Prompt, label)
		if prompt.Done(err) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case cmdQuit, cmdExit:
			return nil
		case cmdReset:
			if err := c.reset(ctx); err != nil {
				return err
			}
			continue
		}
		if err := c.send(ctx, line); err != nil {
			return err
		}
	}
}

func (c *Chat) offerStarters() error {
	if len(c.Session.Transcript()) > 0 {
		return nil
	}
	starters := c.Session.Starters()
	if len(starters) == 0 {
		return nil
	}
	i, err := prompt.Starter(c.Prompt, starters)
	if prompt.Done(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if i == prompt.OwnWords {
		return nil
	}
	if err := c.Session.ChooseStarter(i); err != nil {
		return err
	}
	if turns := c.Session.Transcript(); len(turns) > 0 {
		c.Printer.Turn(turns[len(turns)-1])
	}
	return nil
}

func (c *Chat) reset(ctx context.Context) error {
	p, err := c.Session.Reset(ctx)
	if err != nil {
		return err
	}
	if err := c.await(ctx, p); err != nil {
		return err
	}
	c.Printer.Note("Started %s over.", c.Session.Day())
	return c.offerStarters()
}

func (c *Chat) send(ctx context.Context, text string) error {
	before := len(c.Session.Transcript())

	p, err := c.Session.Send(ctx, text)
	switch {
	case errors.Is(err, session.ErrBusy):
		c.Printer.Note("Still waiting for the last reply.")
		return nil
	case session.IsSilent(err):
		log.Debug().Err(err).Msg("chat: nothing sent")
		return nil
	case err != nil:
		return err
	}

	if err := c.await(ctx, p); err != nil {
		return err
	}
	turns := c.Session.Transcript()
	if len(turns) > before+1 {
		for _, t := range turns[before+1:] {
			c.Printer.Turn(t)
		}
	}
	return nil
}

// await waits for p, swallowing the outcomes that show nothing.
func (c *Chat) await(ctx context.Context, p *session.Pending) error {
	err := p.Wait(ctx)
	if err != nil && session.IsSilent(err) {
		log.Debug().Err(err).Msg("chat: model call produced nothing")
		return nil
	}
	return err
}
