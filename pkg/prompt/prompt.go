// Package prompt wraps the interactive terminal prompts.
package prompt

import (
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// OwnWords is the index Starter returns when the user wants to write their
// own opening instead.
const OwnWords = -1

// IO is where prompts read from and write to. Zero values mean the process's
// stdin and stdout.
type IO struct {
	In  io.Reader
	Out io.Writer
}

func (p IO) stdin() io.ReadCloser {
	if p.In == nil {
		return io.NopCloser(os.Stdin)
	}
	return io.NopCloser(p.In)
}

func (p IO) stdout() io.WriteCloser {
	if p.Out == nil {
		return NopCloser(os.Stdout)
	}
	return NopCloser(p.Out)
}

// Done reports whether err means the user closed the prompt.
func Done(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) ||
		errors.Is(err, promptui.ErrEOF) ||
		errors.Is(err, io.EOF)
}

// Starter lets the user pick one of the starters, or OwnWords.
func Starter(p IO, starters []string) (int, error) {
	items := append(append([]string(nil), starters...), "Write my own")

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ . | bold }}",
		Inactive: "   {{ . | cyan }}",
		Selected: "{{ . | bold }}",
	}

	sel := promptui.Select{
		HideHelp:  true,
		Label:     "How would you like to start",
		Items:     items,
		Templates: templates,
		Size:      len(items),
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	i, _, err := sel.Run()
	if err != nil {
		return 0, err
	}
	if i == len(starters) {
		return OwnWords, nil
	}
	return i, nil
}

// Line reads one line of journal text.
func Line(p IO, label string) (string, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . }} ",
		Invalid: "{{ . }} ",
		Success: "{{ . | faint }} ",
	}
	pr := promptui.Prompt{
		Label:     label,
		Templates: templates,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	return pr.Run()
}

// Confirm asks a yes/no question. An empty answer is no.
func Confirm(p IO, question string) (bool, error) {
	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := ParseBool(input)
		return err
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} [y/N] : ",
		Valid:   "{{ . | green }} [y/N] : ",
		Invalid: "{{ . | red }} [y/N] : ",
		Success: "{{ . | bold }} : ",
	}
	pr := promptui.Prompt{
		Label:     question,
		Templates: templates,
		Validate:  validate,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	result, err := pr.Run()
	if err != nil {
		return false, err
	}
	if result == "" {
		return false, nil
	}
	return ParseBool(result)
}

// Choose lets the user pick one of choices, starting on current.
func Choose(p IO, label string, choices []string, current string) (string, error) {
	cursor := 0
	for i, c := range choices {
		if c == current {
			cursor = i
		}
	}
	sel := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     choices,
		Size:      len(choices),
		CursorPos: cursor,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	_, choice, err := sel.Run()
	return choice, err
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
