package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/timeutil"
)

// Service provides the operations on past days that the CLI and the MCP
// server share. It reads and writes the journal directly and never touches
// the usage gate.
type Service struct {
	Journal *store.Journal
	Now     func() time.Time
}

var (
	ErrNoJournal = errors.New("app: no journal configured")
	ErrEmptyNote = errors.New("app: note is empty")
)

// Match is a turn that contains a search query.
type Match struct {
	Day  timeutil.Bucket `json:"day"`
	Turn entry.Turn      `json:"turn"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today is the bucket for the current instant.
func (s *Service) Today() timeutil.Bucket {
	return timeutil.BucketOf(s.now())
}

// Days returns every day that has a transcript, oldest first.
func (s *Service) Days(ctx context.Context) ([]timeutil.Bucket, error) {
	if s.Journal == nil {
		return nil, ErrNoJournal
	}
	return s.Journal.Days(ctx), nil
}

// Day returns the transcript for day. A day without one is empty.
func (s *Service) Day(ctx context.Context, day timeutil.Bucket) ([]entry.Turn, error) {
	if s.Journal == nil {
		return nil, ErrNoJournal
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Journal.Get(day)
}

// AddNote appends text as a user turn to day and saves the day.
func (s *Service) AddNote(ctx context.Context, day timeutil.Bucket, text string) ([]entry.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyNote
	}
	turns, err := s.Day(ctx, day)
	if err != nil {
		return nil, err
	}
	turns = append(turns, entry.NewTurn(entry.User, text))
	if err := s.Journal.Put(day, turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// Month counts the turns of each day in the month containing then.
func (s *Service) Month(ctx context.Context, then time.Time) (map[timeutil.Bucket]int, error) {
	days, err := s.Days(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[timeutil.Bucket]int)
	for _, d := range days {
		if d.Year != then.Year() || d.Month != then.Month() {
			continue
		}
		turns, err := s.Journal.Get(d)
		if err != nil {
			return nil, err
		}
		out[d] = len(turns)
	}
	return out, nil
}

// Search returns turns whose text contains query, ignoring case, newest day
// first. limit <= 0 means no limit.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("app: search query is empty")
	}
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]timeutil.Bucket, 0, len(all))
	for d := range all {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[j].Before(days[i]) })

	var out []Match
	for _, d := range days {
		for _, t := range all[d] {
			if !strings.Contains(strings.ToLower(t.Text), query) {
				continue
			}
			out = append(out, Match{Day: d, Turn: t})
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// ClearAll removes every transcript.
func (s *Service) ClearAll(ctx context.Context) error {
	if s.Journal == nil {
		return ErrNoJournal
	}
	return s.Journal.ClearAll(ctx)
}

// Watch subscribes to transcript changes when the backend supports it.
func (s *Service) Watch(ctx context.Context, kv store.KV) (<-chan store.Event, error) {
	w, ok := kv.(store.Watcher)
	if !ok {
		return nil, errors.New("app: storage backend does not support watching")
	}
	return w.Watch(ctx)
}

func (s *Service) all(ctx context.Context) (map[timeutil.Bucket][]entry.Turn, error) {
	if s.Journal == nil {
		return nil, ErrNoJournal
	}
	return s.Journal.All(ctx)
}
