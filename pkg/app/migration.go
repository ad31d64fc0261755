package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/timeutil"
)

// referenceDate is the epoch Foundation encodes dates against by default.
var referenceDate = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// ImportResult reports what Import did.
type ImportResult struct {
	Imported []timeutil.Bucket `json:"imported"`
	Skipped  []timeutil.Bucket `json:"skipped"`
}

// Import loads transcripts from r and saves them day by day. Days that
// already have a transcript are skipped unless overwrite is set.
func (s *Service) Import(ctx context.Context, r io.Reader, overwrite bool) (ImportResult, error) {
	if s.Journal == nil {
		return ImportResult{}, ErrNoJournal
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, errors.Wrap(err, "reading import")
	}
	byDay, err := DecodeTranscripts(data)
	if err != nil {
		return ImportResult{}, err
	}

	days := make([]timeutil.Bucket, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var res ImportResult
	for _, d := range days {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		existing, err := s.Journal.Get(d)
		if err != nil {
			return res, err
		}
		if len(existing) > 0 && !overwrite {
			res.Skipped = append(res.Skipped, d)
			continue
		}
		if err := s.Journal.Put(d, byDay[d]); err != nil {
			return res, err
		}
		res.Imported = append(res.Imported, d)
	}
	return res, nil
}

// Export writes every transcript to w as a JSON object keyed by ISO date and
// returns the number of days written.
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	all, err := s.all(ctx)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return 0, errors.Wrap(err, "encoding export")
	}
	return len(all), nil
}

// DecodeTranscripts accepts either a JSON object keyed by day, as written by
// Export, or the flat [key, turns, key, turns, ...] array that a date-keyed
// dictionary is encoded as on Apple platforms, where each key is seconds since
// 2001-01-01 UTC. Keys that land on the same local day are merged in order.
func DecodeTranscripts(data []byte) (map[timeutil.Bucket][]entry.Turn, error) {
	data = bytes.TrimSpace(data)
	out := make(map[timeutil.Bucket][]entry.Turn)
	if len(data) == 0 {
		return out, nil
	}

	switch data[0] {
	case '{':
		var raw map[string][]entry.Turn
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "decoding transcript object")
		}
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			day, err := parseDayKey(k)
			if err != nil {
				return nil, err
			}
			out[day] = append(out[day], raw[k]...)
		}
	case '[':
		var pairs []json.RawMessage
		if err := json.Unmarshal(data, &pairs); err != nil {
			return nil, errors.Wrap(err, "decoding transcript array")
		}
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("app: transcript array has %d elements, want key/value pairs", len(pairs))
		}
		for i := 0; i < len(pairs); i += 2 {
			day, err := decodeDayKey(pairs[i])
			if err != nil {
				return nil, err
			}
			var turns []entry.Turn
			if err := json.Unmarshal(pairs[i+1], &turns); err != nil {
				return nil, errors.Wrapf(err, "decoding turns for %s", day)
			}
			out[day] = append(out[day], turns...)
		}
	default:
		return nil, errors.New("app: transcripts must be a JSON object or array")
	}
	return out, nil
}

func decodeDayKey(raw json.RawMessage) (timeutil.Bucket, error) {
	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err == nil {
		offset := time.Duration(seconds * float64(time.Second))
		return timeutil.BucketOf(referenceDate.Add(offset)), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return timeutil.Bucket{}, fmt.Errorf("app: unsupported day key %s", string(raw))
	}
	return parseDayKey(s)
}

func parseDayKey(s string) (timeutil.Bucket, error) {
	s = strings.TrimSpace(s)
	if b, err := timeutil.ParseBucket(s); err == nil {
		return b, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return timeutil.BucketOf(t), nil
	}
	return timeutil.Bucket{}, fmt.Errorf("app: unsupported day key %q", s)
}
