package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/model"
	"tableflip.dev/journally/pkg/printers"
	"tableflip.dev/journally/pkg/session"
	"tableflip.dev/journally/pkg/settings"
	"tableflip.dev/journally/pkg/starter"
	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/timeutil"
	"tableflip.dev/journally/pkg/usage"
)

type fakeClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeClient) Complete(_ context.Context, req model.Request) (string, error) {
	f.calls++
	if len(req.Messages) == 1 && req.Messages[0].Content == starter.Prompt {
		return "1. One?\n2. Two?\n3. Three?", nil
	}
	return f.reply, f.err
}

func newChat(t *testing.T, client model.Client) (*Chat, *store.Journal, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	kv, err := store.OpenDiskKV(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	gate, err := usage.NewGate(kv, usage.DefaultMaxDailyCalls)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	cache, err := starter.NewCache(kv)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	journal := store.NewJournal(kv)

	now := time.Date(2024, time.March, 9, 20, 0, 0, 0, time.Local)
	s := session.New(journal, gate, cache, client,
		session.WithClock(func() time.Time { return now }),
		session.WithRand(func(int) int { return 1 }),
	)

	var buf bytes.Buffer
	return &Chat{
		Session: s,
		Printer: &printers.PrettyPrint{Out: &buf, Emojis: settings.Defaults()},
	}, journal, &buf
}

func TestOneShotMessage(t *testing.T) {
	client := &fakeClient{reply: "That sounds restful."}
	c, journal, out := newChat(t, client)
	c.Message = "I read all afternoon."

	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}

	want := settings.DefaultBotEmoji + "  That sounds restful." + session.FollowUps[1]
	if got := out.String(); !strings.Contains(got, want) {
		t.Fatalf("output %q does not contain %q", got, want)
	}
	if client.calls != 1 {
		t.Fatalf("expected only the reply call, got %d", client.calls)
	}

	turns, err := journal.Get(timeutil.Bucket{Year: 2024, Month: time.March, Day: 9})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 stored turns, got %d", len(turns))
	}
}

func TestOneShotFailureIsQuiet(t *testing.T) {
	client := &fakeClient{err: errors.New("offline")}
	c, journal, out := newChat(t, client)
	c.Message = "Hello?"

	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
	turns, _ := journal.Get(timeutil.Bucket{Year: 2024, Month: time.March, Day: 9})
	if len(turns) != 0 {
		t.Fatalf("expected nothing persisted, got %v", turns)
	}
}
