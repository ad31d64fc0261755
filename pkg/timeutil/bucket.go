package timeutil

import (
	"fmt"
	"time"
)

// LayoutISO is the canonical text form of a Bucket.
const LayoutISO = "2006-01-02"

// Bucket is a calendar day with the time of day discarded. Two instants that
// fall on the same local calendar day always produce equal buckets, so Bucket
// is safe to use as a map key and to compare with ==.
type Bucket struct {
	Year  int
	Month time.Month
	Day   int
}

// BucketOf returns the bucket of t in the local calendar.
func BucketOf(t time.Time) Bucket {
	return BucketIn(t, time.Local)
}

// BucketIn returns the bucket of t in the calendar of loc. The calendar's own
// day definition governs, so days that are 23 or 25 hours long around DST
// changes still map to a single bucket.
func BucketIn(t time.Time, loc *time.Location) Bucket {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Bucket{Year: y, Month: m, Day: d}
}

// IsToday reports whether b is the bucket of now.
func IsToday(b Bucket, now time.Time) bool {
	return b == BucketOf(now)
}

// ParseBucket parses the ISO form produced by Bucket.String.
func ParseBucket(s string) (Bucket, error) {
	t, err := time.Parse(LayoutISO, s)
	if err != nil {
		return Bucket{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Bucket{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Start returns local midnight at the beginning of the bucket.
func (b Bucket) Start() time.Time {
	return time.Date(b.Year, b.Month, b.Day, 0, 0, 0, 0, time.Local)
}

// AddDays moves the bucket by n calendar days.
func (b Bucket) AddDays(n int) Bucket {
	t := time.Date(b.Year, b.Month, b.Day+n, 12, 0, 0, 0, time.UTC)
	return Bucket{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (b Bucket) Before(o Bucket) bool {
	if b.Year != o.Year {
		return b.Year < o.Year
	}
	if b.Month != o.Month {
		return b.Month < o.Month
	}
	return b.Day < o.Day
}

func (b Bucket) IsZero() bool {
	return b == Bucket{}
}

func (b Bucket) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, int(b.Month), b.Day)
}

// MarshalText encodes the bucket as an ISO date, which keeps it stable as a
// JSON object key. The zero bucket encodes as empty text.
func (b Bucket) MarshalText() ([]byte, error) {
	if b.IsZero() {
		return []byte{}, nil
	}
	return []byte(b.String()), nil
}

func (b *Bucket) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*b = Bucket{}
		return nil
	}
	parsed, err := ParseBucket(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
