// Package settings shows and changes the speaker emojis.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/prompt"
	prefs "tableflip.dev/journally/pkg/settings"
)

type Settings struct {
	Settings *prefs.Settings
	Printer  *printers.PrettyPrint
	Prompt   prompt.IO

	// User and Bot are emojis or 1-based positions in the choice list.
	User string
	Bot  string
	// Interactive picks both emojis with a prompt.
	Interactive bool
	JSON        bool
}

func (s *Settings) Do(_ context.Context) error {
	if s.Settings == nil {
		return errors.New("settings: not loaded")
	}

	if s.Interactive {
		if err := s.pick(); err != nil {
			return err
		}
	}
	if s.User != "" {
		e, err := prefs.Lookup(s.User)
		if err != nil {
			return err
		}
		if err := s.Settings.SetUserEmoji(e); err != nil {
			return err
		}
	}
	if s.Bot != "" {
		e, err := prefs.Lookup(s.Bot)
		if err != nil {
			return err
		}
		if err := s.Settings.SetBotEmoji(e); err != nil {
			return err
		}
	}

	current := s.Settings.Emojis()
	if s.JSON {
		b, err := json.Marshal(current)
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
	pp.Choices("You", prefs.Choices, current.User)
	pp.Choices("Assistant", prefs.Choices, current.Bot)
	return nil
}

func (s *Settings) pick() error {
	current := s.Settings.Emojis()
	user, err := prompt.Choose(s.Prompt, "Your emoji", prefs.Choices, current.User)
	if err != nil {
		return err
	}
	bot, err := prompt.Choose(s.Prompt, "Assistant emoji", prefs.Choices, current.Bot)
	if err != nil {
		return err
	}
	s.User, s.Bot = user, bot
	return nil
}
