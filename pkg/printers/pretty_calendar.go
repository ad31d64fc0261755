package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/timeutil"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month containing month, emphasising days that have a
// transcript and underlining today.
func (pp *PrettyPrint) Calendar(month time.Time, counts map[timeutil.Bucket]int, today timeutil.Bucket) {
	first := time.Date(month.Year(), month.Month(), 1, 12, 0, 0, 0, time.Local)
	days := DaysIn(first)

	count := make([]int, days)
	for b, n := range counts {
		if b.Year == first.Year() && b.Month == first.Month() && b.Day >= 1 && b.Day <= days {
			count[b.Day-1] = n
		}
	}

	todayIdx := -1
	if today.Year == first.Year() && today.Month == first.Month() {
		todayIdx = today.Day - 1
	}
	pp.PrintMonthCount(first, count, todayIdx)
}

// PrintMonthCount draws a month grid. Days with a non-zero count are bold;
// the day at index today, if any, is underlined.
func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int, today int) {
	w := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	hf := color.New(color.Faint)
	_, _ = hf.Fprintln(w, "Su Mo Tu We Th Fr Sa")

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(w, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		printer := l1
		if i < len(count) && count[i] > 0 {
			printer = l2
		}
		if i == today {
			printer = color.New(color.Underline, color.Bold)
		}
		_, _ = printer.Fprintf(w, "%2d", i+1)
		_, _ = fmt.Fprint(w, " ")

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 12, 0, 0, 0, time.UTC).Weekday()
}
