package timeutil

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is an instant persisted as RFC3339 with nanoseconds. The zero
// value encodes as an empty string.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", t.UTC().Format(time.RFC3339Nano))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// SameDay reports whether t and then fall in the same local calendar bucket.
func (t Timestamp) SameDay(then time.Time) bool {
	return BucketOf(t.Time) == BucketOf(then)
}

func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339)
}
