package timeutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBucketOfSameDay(t *testing.T) {
	loc := time.FixedZone("test", -7*3600)
	morning := time.Date(2024, 3, 5, 0, 0, 1, 0, loc)
	night := time.Date(2024, 3, 5, 23, 59, 59, 0, loc)

	if BucketIn(morning, loc) != BucketIn(night, loc) {
		t.Fatalf("expected %v and %v to share a bucket", morning, night)
	}
	if got := BucketIn(night.Add(2*time.Second), loc); got == BucketIn(night, loc) {
		t.Fatalf("expected midnight to start a new bucket, got %v", got)
	}
}

func TestBucketInUsesCalendarNotOffset(t *testing.T) {
	loc := time.FixedZone("east", 9*3600)
	// 20:00 UTC on the 5th is already the 6th at +09:00.
	instant := time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)
	want := Bucket{Year: 2024, Month: time.March, Day: 6}
	if got := BucketIn(instant, loc); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBucketAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// 2024-03-10 is 23 hours long in New York.
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	end := time.Date(2024, 3, 10, 23, 59, 0, 0, loc)
	if BucketIn(start, loc) != BucketIn(end, loc) {
		t.Fatalf("expected both ends of a short day to share a bucket")
	}
	if BucketIn(start.Add(23*time.Hour), loc) == BucketIn(start, loc) {
		t.Fatalf("expected 23h after midnight to be the next day")
	}

	// 2024-11-03 is 25 hours long.
	fall := time.Date(2024, 11, 3, 0, 0, 0, 0, loc)
	if BucketIn(fall.Add(24*time.Hour), loc) != BucketIn(fall, loc) {
		t.Fatalf("expected 24h after midnight to still be the same long day")
	}
}

func TestParseBucketRoundTrip(t *testing.T) {
	b := Bucket{Year: 2025, Month: time.January, Day: 9}
	if b.String() != "2025-01-09" {
		t.Fatalf("unexpected string %q", b.String())
	}
	parsed, err := ParseBucket(b.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != b {
		t.Fatalf("expected %v, got %v", b, parsed)
	}
	if _, err := ParseBucket("yesterday"); err == nil {
		t.Fatalf("expected error for malformed day")
	}
}

func TestBucketAsJSONMapKey(t *testing.T) {
	in := map[Bucket]int{
		{Year: 2024, Month: time.February, Day: 29}: 3,
		{Year: 2024, Month: time.March, Day: 1}:     1,
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := map[Bucket]int{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d keys, got %d (%s)", len(in), len(out), data)
	}
	for k, v := range in {
		if out[k] != v {
			t.Fatalf("key %v: expected %d, got %d", k, v, out[k])
		}
	}
}

func TestAddDaysAndBefore(t *testing.T) {
	b := Bucket{Year: 2024, Month: time.December, Day: 31}
	next := b.AddDays(1)
	if next != (Bucket{Year: 2025, Month: time.January, Day: 1}) {
		t.Fatalf("unexpected next day %v", next)
	}
	if !b.Before(next) || next.Before(b) {
		t.Fatalf("expected %v before %v", b, next)
	}
	if prev := next.AddDays(-366); prev != (Bucket{Year: 2024, Month: time.January, Day: 1}) {
		t.Fatalf("unexpected day %v", prev)
	}
}

func TestIsToday(t *testing.T) {
	now := time.Now()
	if !IsToday(BucketOf(now), now) {
		t.Fatalf("expected today's bucket to be today")
	}
	if IsToday(BucketOf(now).AddDays(-1), now) {
		t.Fatalf("expected yesterday not to be today")
	}
}
