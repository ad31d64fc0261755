package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/timeutil"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
	// Now is used to resolve relative dates; nil means time.Now.
	Now func() time.Time
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a day, example: --on="2024-3-9", --on="3/9" or --on=yesterday.`)
}

func (o *OnOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// GetOn returns the requested day, or today when none was given.
func (o *OnOptions) GetOn() (timeutil.Bucket, error) {
	now := o.now()
	today := timeutil.BucketOf(now)

	switch strings.ToLower(strings.TrimSpace(o.OnString)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	t, err := time.Parse(layoutISO, o.OnString)
	if err == nil {
		return timeutil.Bucket{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	}

	// Let the year be the same.
	t, err = time.Parse(layoutISOShort, o.OnString)
	if err != nil {
		return timeutil.Bucket{}, fmt.Errorf("unknown day %q", o.OnString)
	}
	b := timeutil.Bucket{Year: now.Year(), Month: t.Month(), Day: t.Day()}
	// A journal looks back: 12/24 said in January means last December.
	if today.Before(b) {
		b.Year--
	}
	return b, nil
}
