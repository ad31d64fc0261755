package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/model"
	"tableflip.dev/journally/pkg/starter"
	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/timeutil"
	"tableflip.dev/journally/pkg/usage"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Complete(ctx context.Context, req model.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type fixture struct {
	kv       store.KV
	journal  *store.Journal
	gate     *usage.Gate
	starters *starter.Cache
	client   *mockClient
	now      time.Time
	session  *Session
}

var (
	day1 = time.Date(2024, time.March, 9, 21, 30, 0, 0, time.Local)
	day2 = time.Date(2024, time.March, 10, 0, 5, 0, 0, time.Local)
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv, err := store.OpenDiskKV(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	gate, err := usage.NewGate(kv, usage.DefaultMaxDailyCalls)
	require.NoError(t, err)
	cache, err := starter.NewCache(kv)
	require.NoError(t, err)

	f := &fixture{
		kv:       kv,
		journal:  store.NewJournal(kv),
		gate:     gate,
		starters: cache,
		client:   &mockClient{},
		now:      day1,
	}
	f.session = New(f.journal, f.gate, f.starters, f.client,
		WithClock(func() time.Time { return f.now }),
		WithRand(func(int) int { return 0 }),
	)
	return f
}

func (f *fixture) today(t *testing.T) []entry.Turn {
	t.Helper()
	turns, err := f.journal.Get(timeutil.BucketOf(f.now))
	require.NoError(t, err)
	return turns
}

func (f *fixture) seedStarters(t *testing.T) {
	t.Helper()
	require.NoError(t, f.starters.Set(f.now, []string{"What made you smile?", "Who helped you?", "What is next?"}))
}

func wait(t *testing.T, p *Pending) error {
	t.Helper()
	require.NotNil(t, p)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Wait(ctx)
}

// blockingReply makes the next Complete call wait for release.
func (f *fixture) blockingReply(reply string) chan struct{} {
	release := make(chan struct{})
	f.client.On("Complete", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(reply, nil).Once()
	return release
}

func TestStartFetchesStarters(t *testing.T) {
	f := newFixture(t)
	f.client.On("Complete", mock.Anything, mock.MatchedBy(func(req model.Request) bool {
		return req.System == model.SystemInstruction &&
			req.Model == model.DefaultModel &&
			len(req.Messages) == 1 &&
			req.Messages[0].Role == entry.User &&
			req.Messages[0].Content == starter.Prompt
	})).Return("1. What made you smile?\n2. Who helped you?\n3. What is next?", nil).Once()

	p, err := f.session.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, wait(t, p))

	want := []string{"What made you smile?", "Who helped you?", "What is next?"}
	assert.Equal(t, want, f.session.Starters())
	assert.Equal(t, AwaitingStarters, f.session.State())

	cached, ok := f.starters.Get(f.now)
	require.True(t, ok)
	assert.Equal(t, want, cached)
	assert.Equal(t, 1, f.gate.Counter(f.now).Count)
	f.client.AssertExpectations(t)
}

func TestStartUsesCachedStarters(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)

	p, err := f.session.Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Len(t, f.session.Starters(), 3)
	assert.Equal(t, 0, f.gate.Counter(f.now).Count)
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestStartQuotaExhausted(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < usage.DefaultMaxDailyCalls; i++ {
		require.NoError(t, f.gate.RecordCall(f.now))
	}

	p, err := f.session.Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, f.session.Starters())
	assert.Equal(t, AwaitingStarters, f.session.State())
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestStartStarterFailure(t *testing.T) {
	f := newFixture(t)
	f.client.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("offline")).Once()

	p, err := f.session.Start(context.Background())
	require.NoError(t, err)
	err = wait(t, p)
	assert.ErrorIs(t, err, ErrReplyFailed)
	assert.True(t, IsSilent(err))
	assert.Empty(t, f.session.Starters())
	_, ok := f.starters.Get(f.now)
	assert.False(t, ok)
	assert.Equal(t, 1, f.gate.Counter(f.now).Count)
}

func TestStartLoadsExistingTranscript(t *testing.T) {
	f := newFixture(t)
	stored := []entry.Turn{
		entry.NewTurn(entry.Assistant, "How was today?"),
		entry.NewTurn(entry.User, "Quiet."),
	}
	require.NoError(t, f.journal.Put(timeutil.BucketOf(f.now), stored))

	p, err := f.session.Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, Active, f.session.State())
	assert.Equal(t, stored, f.session.Transcript())
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSendEmptyInput(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	_, err := f.session.Start(context.Background())
	require.NoError(t, err)

	p, err := f.session.Send(context.Background(), " \t\n ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, p)
	assert.Empty(t, f.session.Transcript())
	assert.Empty(t, f.today(t))
	assert.Equal(t, 0, f.gate.Counter(f.now).Count)
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSendSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	_, err := f.session.Start(context.Background())
	require.NoError(t, err)

	f.client.On("Complete", mock.Anything, mock.MatchedBy(func(req model.Request) bool {
		return req.System == model.SystemInstruction &&
			len(req.Messages) == 1 &&
			req.Messages[0].Content == "Hello"
	})).Return("  Nice to hear from you.  ", nil).Once()

	p, err := f.session.Send(context.Background(), "  Hello ")
	require.NoError(t, err)
	require.NoError(t, wait(t, p))

	turns := f.session.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, entry.User, turns[0].Speaker)
	assert.Equal(t, "Hello", turns[0].Text)
	assert.Equal(t, entry.Assistant, turns[1].Speaker)
	assert.Equal(t, "Nice to hear from you."+FollowUps[0], turns[1].Text)

	assert.Equal(t, Active, f.session.State())
	assert.Empty(t, f.session.Starters())
	assert.Equal(t, turns, f.today(t))
	assert.Equal(t, 1, f.gate.Counter(f.now).Count)
	f.client.AssertExpectations(t)
}

func TestSendAppendsFollowUp(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	f.session = New(f.journal, f.gate, f.starters, f.client,
		WithClock(func() time.Time { return f.now }))
	f.client.On("Complete", mock.Anything, mock.Anything).Return("Sounds good.", nil)

	p, err := f.session.Send(context.Background(), "Hello")
	require.NoError(t, err)
	require.NoError(t, wait(t, p))

	reply := f.session.Transcript()[1].Text
	rest, ok := strings.CutPrefix(reply, "Sounds good.")
	require.True(t, ok)
	assert.Contains(t, FollowUps, rest)
}

func TestSendFailureIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	_, err := f.session.Start(context.Background())
	require.NoError(t, err)
	f.client.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()

	p, err := f.session.Send(context.Background(), "Hello")
	require.NoError(t, err)
	err = wait(t, p)
	assert.ErrorIs(t, err, ErrReplyFailed)

	turns := f.session.Transcript()
	require.Len(t, turns, 1)
	assert.Equal(t, entry.User, turns[0].Speaker)
	assert.Empty(t, f.today(t))
	assert.Equal(t, Active, f.session.State())
	assert.Equal(t, 1, f.gate.Counter(f.now).Count)
}

func TestSendMissingCredential(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	s := New(f.journal, f.gate, f.starters, model.NewOpenAI("", ""),
		WithClock(func() time.Time { return f.now }))

	p, err := s.Send(context.Background(), "Hello")
	require.NoError(t, err)
	err = wait(t, p)
	assert.ErrorIs(t, err, ErrReplyFailed)
	assert.ErrorIs(t, err, model.ErrMissingCredential)
	assert.Len(t, s.Transcript(), 1)
}

func TestSendQuotaExceeded(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	for i := 0; i < usage.DefaultMaxDailyCalls; i++ {
		require.NoError(t, f.gate.RecordCall(f.now))
	}

	p, err := f.session.Send(context.Background(), "Hello")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Nil(t, p)
	assert.Equal(t, Active, f.session.State())
	assert.Len(t, f.session.Transcript(), 1)
	assert.Empty(t, f.today(t))
	assert.Equal(t, usage.DefaultMaxDailyCalls, f.gate.Counter(f.now).Count)
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSendWhileAwaitingReply(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	release := f.blockingReply("First.")

	p, err := f.session.Send(context.Background(), "one")
	require.NoError(t, err)
	assert.Equal(t, AwaitingReply, f.session.State())
	assert.True(t, f.session.Busy())

	_, err = f.session.Send(context.Background(), "two")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, wait(t, p))
	assert.False(t, f.session.Busy())
	assert.Equal(t, Active, f.session.State())
	assert.Len(t, f.session.Transcript(), 2)
	f.client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestResetClearsDay(t *testing.T) {
	f := newFixture(t)
	stored := []entry.Turn{entry.NewTurn(entry.User, "Old thoughts.")}
	require.NoError(t, f.journal.Put(timeutil.BucketOf(f.now), stored))
	f.seedStarters(t)
	_, err := f.session.Start(context.Background())
	require.NoError(t, err)

	f.client.On("Complete", mock.Anything, mock.Anything).Return("1. Fresh?\n2. New?\n3. Again?", nil).Once()
	p, err := f.session.Reset(context.Background())
	require.NoError(t, err)
	require.NoError(t, wait(t, p))

	assert.Empty(t, f.session.Transcript())
	assert.Empty(t, f.today(t))
	assert.Equal(t, []string{"Fresh?", "New?", "Again?"}, f.session.Starters())
	assert.Equal(t, AwaitingStarters, f.session.State())
	assert.Equal(t, 1, f.gate.Counter(f.now).Count)
}

func TestResetDiscardsInFlightReply(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	release := f.blockingReply("Too late.")

	p, err := f.session.Send(context.Background(), "Hello")
	require.NoError(t, err)

	next, err := f.session.Reset(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)

	close(release)
	assert.ErrorIs(t, wait(t, p), ErrStaleReply)
	assert.Empty(t, f.session.Transcript())
	assert.Empty(t, f.today(t))
	assert.False(t, f.session.Busy())
}

func TestDayChangeDiscardsInFlightReply(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	release := f.blockingReply("Too late.")

	p, err := f.session.Send(context.Background(), "Hello")
	require.NoError(t, err)

	f.now = day2
	require.NoError(t, f.session.Refresh())
	assert.Equal(t, timeutil.BucketOf(day2), f.session.Day())

	close(release)
	assert.ErrorIs(t, wait(t, p), ErrStaleReply)
	assert.Empty(t, f.session.Transcript())

	for _, at := range []time.Time{day1, day2} {
		turns, err := f.journal.Get(timeutil.BucketOf(at))
		require.NoError(t, err)
		assert.Empty(t, turns, "day %s", timeutil.BucketOf(at))
	}
}

func TestRolloverLoadsNewDay(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	_, err := f.session.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.session.ChooseStarter(0))

	next := []entry.Turn{entry.NewTurn(entry.User, "Written elsewhere.")}
	require.NoError(t, f.journal.Put(timeutil.BucketOf(day2), next))

	f.now = day2
	require.NoError(t, f.session.Refresh())
	assert.Equal(t, next, f.session.Transcript())
	assert.Equal(t, Active, f.session.State())
}

func TestChooseStarter(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	_, err := f.session.Start(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, f.session.ChooseStarter(3), ErrNoStarter)
	require.NoError(t, f.session.ChooseStarter(1))

	turns := f.session.Transcript()
	require.Len(t, turns, 1)
	assert.Equal(t, entry.Assistant, turns[0].Speaker)
	assert.Equal(t, "Who helped you?", turns[0].Text)
	assert.Equal(t, turns, f.today(t))
	assert.Equal(t, Active, f.session.State())
	assert.Empty(t, f.session.Starters())

	assert.ErrorIs(t, f.session.ChooseStarter(0), ErrNoStarter)
}

func TestStartDuringReplyKeepsTurn(t *testing.T) {
	f := newFixture(t)
	f.seedStarters(t)
	p, err := f.session.Start(context.Background())
	require.NoError(t, err)
	require.Nil(t, p)

	release := f.blockingReply("Glad to hear it.")
	p, err = f.session.Send(context.Background(), "Hello")
	require.NoError(t, err)

	again, err := f.session.Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Equal(t, AwaitingReply, f.session.State())
	require.Len(t, f.session.Transcript(), 1)

	close(release)
	require.NoError(t, wait(t, p))

	turns := f.session.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, "Hello", turns[0].Text)
	assert.Equal(t, "Glad to hear it."+FollowUps[0], turns[1].Text)
	assert.Equal(t, turns, f.today(t))
	assert.Equal(t, 1, f.gate.Counter(f.now).Count)
}

func TestRefreshDoesNotFetchStarters(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Refresh())
	assert.Equal(t, AwaitingStarters, f.session.State())
	assert.Equal(t, timeutil.BucketOf(f.now), f.session.Day())
	assert.Empty(t, f.session.Starters())
	assert.Equal(t, 0, f.gate.Counter(f.now).Count)
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestResetDuringStarterFetchKeepsStarters(t *testing.T) {
	f := newFixture(t)
	release := f.blockingReply("1. Late?\n2. Still useful?\n3. Yes?")

	p, err := f.session.Start(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)

	next, err := f.session.Reset(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)

	close(release)
	require.NoError(t, wait(t, p))

	want := []string{"Late?", "Still useful?", "Yes?"}
	assert.Equal(t, want, f.session.Starters())
	cached, ok := f.starters.Get(f.now)
	require.True(t, ok)
	assert.Equal(t, want, cached)
	assert.Equal(t, 1, f.gate.Counter(f.now).Count)
	f.client.AssertNumberOfCalls(t, "Complete", 1)
}
