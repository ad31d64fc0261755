package entry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Speaker attributes a turn to one side of the conversation.
type Speaker string

const (
	User      Speaker = "user"
	Assistant Speaker = "assistant"
)

func (s Speaker) Valid() bool {
	return s == User || s == Assistant
}

func (s *Speaker) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sp := Speaker(strings.ToLower(raw))
	if !sp.Valid() {
		return fmt.Errorf("unknown speaker %q", raw)
	}
	*s = sp
	return nil
}

// Turn is one message in a day's conversation. Turns are values and are never
// modified after NewTurn returns; equality is field-wise.
type Turn struct {
	ID      string  `json:"id"`
	Speaker Speaker `json:"role"`
	Text    string  `json:"content"`
}

// NewTurn creates a turn with a fresh identifier.
func NewTurn(speaker Speaker, text string) Turn {
	return Turn{
		ID:      uuid.NewString(),
		Speaker: speaker,
		Text:    text,
	}
}

func (t Turn) Equal(o Turn) bool {
	return t == o
}

func (t Turn) String() string {
	return fmt.Sprintf("%s: %s", t.Speaker, t.Text)
}

// Clone returns a copy of turns that does not share backing storage.
func Clone(turns []Turn) []Turn {
	if len(turns) == 0 {
		return []Turn{}
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
