package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/timeutil"
)

// Journal maps each day to its ordered transcript. It is the only component
// that writes below KeyJournalEntries.
type Journal struct {
	mu sync.Mutex
	kv KV
}

// dayRecord is the on-disk form of one day. Day duplicates the key so a
// record can be checked against the key it was read from.
type dayRecord struct {
	Day   timeutil.Bucket `json:"day"`
	Turns []entry.Turn    `json:"turns"`
}

func NewJournal(kv KV) *Journal {
	return &Journal{kv: kv}
}

func dayKey(day timeutil.Bucket) string {
	return join(KeyJournalEntries, day.String())
}

// Get returns the transcript stored for day, or an empty transcript when the
// day was never written.
func (j *Journal) Get(day timeutil.Bucket) ([]entry.Turn, error) {
	val, err := j.kv.Read(dayKey(day))
	if errors.Is(err, ErrNotFound) {
		return []entry.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", day, err)
	}
	var rec dayRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", day, err)
	}
	if !rec.Day.IsZero() && rec.Day != day {
		return nil, fmt.Errorf("store: record for %s found under %s", rec.Day, day)
	}
	return entry.Clone(rec.Turns), nil
}

// Put replaces the transcript of day. The write is durable when Put returns.
// An empty transcript removes the day.
func (j *Journal) Put(day timeutil.Bucket, turns []entry.Turn) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(turns) == 0 {
		if err := j.kv.Erase(dayKey(day)); err != nil {
			return fmt.Errorf("store: erase %s: %w", day, err)
		}
		return nil
	}
	data, err := json.Marshal(dayRecord{Day: day, Turns: turns})
	if err != nil {
		return err
	}
	if err := j.kv.Write(dayKey(day), data); err != nil {
		return fmt.Errorf("store: write %s: %w", day, err)
	}
	log.Debug().Str("day", day.String()).Int("turns", len(turns)).Msg("journal saved")
	return nil
}

// ClearAll removes every stored day.
func (j *Journal) ClearAll(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, key := range j.kv.Keys(ctx, KeyJournalEntries+keySep) {
		if err := j.kv.Erase(key); err != nil {
			return fmt.Errorf("store: erase %s: %w", key, err)
		}
	}
	return nil
}

// Days lists the days that have a stored transcript, oldest first.
func (j *Journal) Days(ctx context.Context) []timeutil.Bucket {
	prefix := KeyJournalEntries + keySep
	days := make([]timeutil.Bucket, 0)
	for _, key := range j.kv.Keys(ctx, prefix) {
		day, err := timeutil.ParseBucket(strings.TrimPrefix(key, prefix))
		if err != nil {
			log.Warn().Str("key", key).Msg("store: skipping unrecognised journal key")
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(a, b int) bool { return days[a].Before(days[b]) })
	return days
}

// All loads every stored day.
func (j *Journal) All(ctx context.Context) (map[timeutil.Bucket][]entry.Turn, error) {
	out := make(map[timeutil.Bucket][]entry.Turn)
	for _, day := range j.Days(ctx) {
		turns, err := j.Get(day)
		if err != nil {
			return nil, err
		}
		out[day] = turns
	}
	return out, nil
}
