package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/timeutil"
)

var today = timeutil.Bucket{Year: 2024, Month: time.March, Day: 10}

func newService(t *testing.T) *Service {
	t.Helper()
	kv, err := store.OpenDiskKV(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskKV failed: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return NewService(&app.Service{
		Journal: store.NewJournal(kv),
		Now:     func() time.Time { return today.Start().Add(8 * time.Hour) },
	})
}

func TestServiceAddNoteToday(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	dto, err := svc.AddNote(ctx, "today", "Went for a run.")
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if dto.Day != "2024-03-10" {
		t.Fatalf("expected day 2024-03-10, got %s", dto.Day)
	}
	if len(dto.Turns) != 1 || dto.Turns[0].Role != string(entry.User) {
		t.Fatalf("expected one user turn, got %+v", dto.Turns)
	}
	if dto.Turns[0].ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestServiceGetDay(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.AddNote(ctx, "2024-03-09", "Quiet day."); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	dto, err := svc.GetDay(ctx, "yesterday")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if len(dto.Turns) != 1 || dto.Turns[0].Content != "Quiet day." {
		t.Fatalf("unexpected turns %+v", dto.Turns)
	}

	empty, err := svc.GetDay(ctx, "2020-01-01")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if len(empty.Turns) != 0 {
		t.Fatalf("expected empty day, got %+v", empty.Turns)
	}
}

func TestServiceBadDay(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.GetDay(ctx, ""); !errors.Is(err, ErrDayRequired) {
		t.Fatalf("expected ErrDayRequired, got %v", err)
	}
	if _, err := svc.GetDay(ctx, "March 9"); err == nil {
		t.Fatalf("expected error for unparseable day")
	}
	if _, err := svc.AddNote(ctx, "today", "  "); !errors.Is(err, app.ErrEmptyNote) {
		t.Fatalf("expected ErrEmptyNote, got %v", err)
	}
}

func TestServiceListDays(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, day := range []string{"2024-03-10", "2024-03-08"} {
		if _, err := svc.AddNote(ctx, day, "first on "+day); err != nil {
			t.Fatalf("AddNote failed: %v", err)
		}
	}
	if _, err := svc.AddNote(ctx, "2024-03-10", "second"); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	days, err := svc.ListDays(ctx)
	if err != nil {
		t.Fatalf("ListDays failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Day != "2024-03-08" || days[1].Day != "2024-03-10" {
		t.Fatalf("expected oldest first, got %+v", days)
	}
	if days[1].TurnCount != 2 || days[1].Opening != "first on 2024-03-10" || days[1].Latest != "second" {
		t.Fatalf("unexpected summary %+v", days[1])
	}
}

func TestServiceSearchTurns(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.AddNote(ctx, "2024-03-09", "Coffee with Sam."); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if _, err := svc.AddNote(ctx, "today", "More coffee."); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	results, err := svc.SearchTurns(ctx, "COFFEE", 10)
	if err != nil {
		t.Fatalf("SearchTurns failed: %v", err)
	}
	if len(results) != 2 || results[0].Day != "2024-03-10" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestNewServer(t *testing.T) {
	if NewServer(newService(t), "journally", "test") == nil {
		t.Fatalf("expected a server")
	}
}

func TestTemplateArg(t *testing.T) {
	tests := map[string]struct {
		in   any
		want string
	}{
		"string":     {in: "2024-03-09", want: "2024-03-09"},
		"strings":    {in: []string{"2024-03-09"}, want: "2024-03-09"},
		"any slice":  {in: []any{"2024-03-09"}, want: "2024-03-09"},
		"empty list": {in: []string{}, want: ""},
		"nil":        {in: nil, want: ""},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := templateArg(tc.in); got != tc.want {
				t.Fatalf("templateArg(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
