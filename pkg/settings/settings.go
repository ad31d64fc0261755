// Package settings holds the user's display preferences.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/store"
)

const (
	DefaultUserEmoji = "🧍‍♂️"
	DefaultBotEmoji  = "👩‍⚕️"
)

// Choices are the emojis a speaker can be shown with.
var Choices = []string{"🧍‍♂️", "👩‍⚕️", "🙂", "🤖", "😎", "👩‍💻", "🔬", "🧠", "👽", "🐶"}

var ErrUnknownEmoji = errors.New("settings: emoji is not one of the choices")

// Emojis pairs each speaker with the emoji printed before their turns.
type Emojis struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// For returns the emoji for speaker.
func (e Emojis) For(speaker entry.Speaker) string {
	if speaker == entry.Assistant {
		return e.Bot
	}
	return e.User
}

// Defaults returns the emojis used when nothing has been chosen.
func Defaults() Emojis {
	return Emojis{User: DefaultUserEmoji, Bot: DefaultBotEmoji}
}

// Valid reports whether emoji is one of Choices.
func Valid(emoji string) bool {
	for _, c := range Choices {
		if c == emoji {
			return true
		}
	}
	return false
}

// Lookup resolves a choice given either as the emoji itself or as its
// 1-based position in Choices.
func Lookup(choice string) (string, error) {
	choice = strings.TrimSpace(choice)
	if Valid(choice) {
		return choice, nil
	}
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(Choices) {
		return Choices[n-1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEmoji, choice)
}

// Settings is the persisted preference set.
type Settings struct {
	mu     sync.Mutex
	kv     store.KV
	emojis Emojis
}

// Load reads the preferences from kv. Missing or unknown values fall back to
// the defaults.
func Load(kv store.KV) (*Settings, error) {
	s := &Settings{kv: kv, emojis: Defaults()}
	for key, dst := range map[string]*string{
		store.KeyUserEmoji: &s.emojis.User,
		store.KeyBotEmoji:  &s.emojis.Bot,
	} {
		raw, err := kv.Read(key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "reading %s", key)
		}
		if v := string(raw); Valid(v) {
			*dst = v
		} else {
			log.Warn().Str("key", key).Str("value", v).Msg("settings: ignoring unknown emoji")
		}
	}
	return s, nil
}

func (s *Settings) Emojis() Emojis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emojis
}

func (s *Settings) SetUserEmoji(emoji string) error {
	return s.set(store.KeyUserEmoji, emoji, &s.emojis.User)
}

func (s *Settings) SetBotEmoji(emoji string) error {
	return s.set(store.KeyBotEmoji, emoji, &s.emojis.Bot)
}

func (s *Settings) set(key, emoji string, dst *string) error {
	if !Valid(emoji) {
		return fmt.Errorf("%w: %q", ErrUnknownEmoji, emoji)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Write(key, []byte(emoji)); err != nil {
		return pkgerrors.Wrapf(err, "writing %s", key)
	}
	*dst = emoji
	return nil
}
