package starter

import (
	"regexp"
	"strings"
)

// Count is how many starters are requested from the model.
const Count = 3

// Prompt asks the model for the day's starters.
const Prompt = "Give me 3 short, creative journaling questions to start someone's daily reflection. Return them as a plain numbered list, one per line."

var enumerator = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s*`)

// Parse splits a model reply into starter questions: one per non-blank line,
// with list numbering or bullets removed and surrounding quotes trimmed.
func Parse(reply string) []string {
	out := make([]string, 0, Count)
	for _, line := range strings.Split(reply, "\n") {
		line = enumerator.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), `"“”`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
