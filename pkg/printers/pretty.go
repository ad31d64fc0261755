package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/settings"
)

// PrettyPrint renders journal data for a terminal.
type PrettyPrint struct {
	Out    io.Writer
	Emojis settings.Emojis
	ShowID bool
}

const idWidth = 8

var spacing = strings.Repeat(" ", idWidth+2)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) emojis() settings.Emojis {
	if pp.Emojis.User == "" || pp.Emojis.Bot == "" {
		return settings.Defaults()
	}
	return pp.Emojis
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " turn")
	default:
		_, _ = c.Fprintln(pp.out(), " turns")
	}
}

// Transcript prints turns in order, each prefixed with its speaker's emoji.
func (pp *PrettyPrint) Transcript(turns ...entry.Turn) {
	if len(turns) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	for _, t := range turns {
		pp.Turn(t)
	}
	pp.NewLine()
}

// Turn prints a single turn.
func (pp *PrettyPrint) Turn(t entry.Turn) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	u := color.New()
	a := color.New(color.FgCyan)

	if pp.ShowID {
		id := t.ID
		if len(id) > idWidth {
			id = id[:idWidth]
		}
		_, _ = y.Fprint(pp.out(), id)
		_, _ = y.Fprint(pp.out(), strings.Repeat(" ", len(spacing)-len(id)))
	}
	printer := u
	if t.Speaker == entry.Assistant {
		printer = a
	}
	_, _ = printer.Fprintf(pp.out(), "%s  %s\n", pp.emojis().For(t.Speaker), t.Text)
}

// Starters prints the numbered starter prompts on offer.
func (pp *PrettyPrint) Starters(options []string) {
	if len(options) == 0 {
		return
	}
	f := color.New(color.Faint)
	q := color.New(color.FgBlue)
	for i, o := range options {
		_, _ = f.Fprintf(pp.out(), "%2d. ", i+1)
		_, _ = q.Fprintln(pp.out(), o)
	}
	pp.NewLine()
}

// Note prints a faint informational line.
func (pp *PrettyPrint) Note(format string, args ...any) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintf(pp.out(), format+"\n", args...)
}
