package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/usage"
)

const previewWidth = 48

// History prints one row per day, oldest first.
func (pp *PrettyPrint) History(rows []app.DaySummary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = previewWidth
	tbl.AddRow(bold.Sprint("Day"), bold.Sprint("Turns"), bold.Sprint("Opening"))
	for _, r := range rows {
		if r.Turns == 0 {
			tbl.AddRow(faint.Sprint(r.Day.String()), faint.Sprint("-"), "")
			continue
		}
		tbl.AddRow(r.Day.String(), r.Turns, r.First)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Usage prints today's quota state.
func (pp *PrettyPrint) Usage(c usage.Counter) {
	bold := color.New(color.Bold)

	last := "never"
	if !c.LastCall.IsZero() {
		last = c.LastCall.Local().Format("2006-01-02 15:04")
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Calls today"), c.Count)
	tbl.AddRow(bold.Sprint("Daily limit"), c.Limit)
	tbl.AddRow(bold.Sprint("Remaining"), c.Remaining())
	tbl.AddRow(bold.Sprint("Last call"), last)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Choices prints the numbered emoji choices, marking the current one.
func (pp *PrettyPrint) Choices(title string, choices []string, current string) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(title), "")
	for i, c := range choices {
		mark := ""
		if c == current {
			mark = "*"
		}
		tbl.AddRow(fmt.Sprintf("%2d %s", i+1, mark), c)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
