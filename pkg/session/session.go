// Package session runs one day's journaling conversation: it loads the day's
// transcript, offers starter prompts, relays turns to the model within the
// daily quota, and writes every completed exchange back to the journal.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/model"
	"tableflip.dev/journally/pkg/starter"
	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/timeutil"
	"tableflip.dev/journally/pkg/usage"
)

var (
	// ErrEmptyInput is returned for a message that is blank after trimming.
	ErrEmptyInput = errors.New("session: empty input")
	// ErrBusy is returned while another model call is outstanding.
	ErrBusy = errors.New("session: a model call is already in flight")
	// ErrQuotaExceeded is returned when today's call quota is used up.
	ErrQuotaExceeded = errors.New("session: daily call limit reached")
	// ErrReplyFailed wraps any failure of the model call itself.
	ErrReplyFailed = errors.New("session: no reply")
	// ErrStaleReply is reported by a Pending whose result was discarded
	// because the session was reset or moved to another day meanwhile.
	ErrStaleReply = errors.New("session: reply discarded")
	// ErrNoStarter is returned by ChooseStarter for an unknown option.
	ErrNoStarter = errors.New("session: no such starter")
)

// FollowUps are appended, one at random, to every assistant reply.
var FollowUps = []string{
	" Would you like to reflect more on that?",
	" How did that impact your mindset moving forward?",
	" Is there anything else you’d like to share about that?",
	" What did that experience teach you about yourself?",
	" Would you like to explore that a bit more?",
}

// IsSilent reports whether err is one of the outcomes that leave nothing to
// show the user.
func IsSilent(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrReplyFailed) ||
		errors.Is(err, ErrStaleReply)
}

type State int

const (
	Idle State = iota
	AwaitingStarters
	Active
	AwaitingReply
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingStarters:
		return "awaiting-starters"
	case Active:
		return "active"
	case AwaitingReply:
		return "awaiting-reply"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type callKind int

const (
	callStarters callKind = iota
	callReply
)

// tag identifies the session epoch a call was made in.
type tag struct {
	day timeutil.Bucket
	gen uint64
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand replaces the follow-up picker. intn(n) must return a value in
// [0, n).
func WithRand(intn func(int) int) Option {
	return func(s *Session) { s.intn = intn }
}

// WithModel sets the model name and sampling temperature sent with every
// request.
func WithModel(name string, temperature float32) Option {
	return func(s *Session) {
		if name != "" {
			s.modelName = name
		}
		s.temperature = temperature
	}
}

// WithCallTimeout bounds each model call.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// Session is safe for concurrent use. Model calls run on their own goroutine;
// their completion is the only path that changes state on their behalf.
type Session struct {
	journal  *store.Journal
	gate     *usage.Gate
	starters *starter.Cache
	client   model.Client

	modelName   string
	temperature float32
	timeout     time.Duration
	now         func() time.Time
	intn        func(int) int

	mu       sync.Mutex
	state    State
	day      timeutil.Bucket
	gen      uint64
	turns    []entry.Turn
	options  []string
	inflight bool
	wg       sync.WaitGroup
}

func New(journal *store.Journal, gate *usage.Gate, starters *starter.Cache, client model.Client, opts ...Option) *Session {
	s := &Session{
		journal:     journal,
		gate:        gate,
		starters:    starters,
		client:      client,
		modelName:   model.DefaultModel,
		temperature: model.DefaultTemperature,
		now:         time.Now,
		intn:        rand.IntN,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Pending is the handle for one asynchronous model call.
type Pending struct {
	done chan struct{}
	err  error
}

// Done is closed once the call's result has been applied or discarded.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the call completes or ctx ends. A nil Pending is already
// complete.
func (p *Pending) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start loads today's transcript. An empty day presents starter prompts, from
// the cache when it is fresh and otherwise from a model call, quota
// permitting. Calling Start again on the same day keeps the in-memory
// transcript and any call in flight. The returned Pending is nil when no call
// was made.
func (s *Session) Start(ctx context.Context) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.syncDayLocked(now); err != nil {
		return nil, err
	}
	if s.state != AwaitingStarters || len(s.turns) > 0 || len(s.options) > 0 {
		return nil, nil
	}
	return s.offerStartersLocked(ctx, now), nil
}

// Refresh loads today's transcript without offering starters. It also moves
// the session to the current day if midnight has passed since its last
// operation.
func (s *Session) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncDayLocked(s.now())
}

// Send appends a user turn and asks the model for a reply.
func (s *Session) Send(ctx context.Context, text string) (*Pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.syncDayLocked(now); err != nil {
		return nil, err
	}
	if s.inflight {
		return nil, ErrBusy
	}

	s.turns = append(s.turns, entry.NewTurn(entry.User, text))
	s.options = nil
	s.state = AwaitingReply

	if !s.gate.CanCall(now) {
		log.Debug().Stringer("day", s.day).Msg("session: quota reached, not calling model")
		s.state = Active
		return nil, ErrQuotaExceeded
	}
	if err := s.gate.RecordCall(now); err != nil {
		log.Warn().Err(err).Msg("session: recording call")
	}

	req := model.Request{
		System:      model.SystemInstruction,
		Messages:    model.FromTurns(s.turns),
		Model:       s.modelName,
		Temperature: s.temperature,
	}
	return s.launchLocked(ctx, callReply, req, now), nil
}

// ChooseStarter opens the day's conversation with the i'th presented starter.
func (s *Session) ChooseStarter(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncDayLocked(s.now()); err != nil {
		return err
	}
	if len(s.turns) > 0 || i < 0 || i >= len(s.options) {
		return ErrNoStarter
	}

	s.turns = append(s.turns, entry.NewTurn(entry.Assistant, s.options[i]))
	s.options = nil
	if s.state != AwaitingReply {
		s.state = Active
	}
	return s.journal.Put(s.day, s.turns)
}

// Reset empties today's transcript, drops the cached starters and offers a
// fresh set. A call still in flight is left to finish and its result is
// discarded.
func (s *Session) Reset(ctx context.Context) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.syncDayLocked(now); err != nil {
		return nil, err
	}

	s.gen++
	s.turns = nil
	s.options = nil
	s.state = AwaitingStarters
	if err := s.journal.Put(s.day, nil); err != nil {
		return nil, pkgerrors.Wrap(err, "clearing today's transcript")
	}
	if err := s.starters.Invalidate(); err != nil {
		log.Warn().Err(err).Msg("session: invalidating starters")
	}
	return s.offerStartersLocked(ctx, now), nil
}

// Wait blocks until every call launched by the session has completed.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Day is the bucket the session is currently writing to.
func (s *Session) Day() timeutil.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// Transcript returns a copy of the in-memory transcript.
func (s *Session) Transcript() []entry.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entry.Clone(s.turns)
}

// Starters returns the starter prompts currently on offer.
func (s *Session) Starters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.options...)
}

// Busy reports whether a model call is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight
}

func (s *Session) loadLocked(day timeutil.Bucket) error {
	turns, err := s.journal.Get(day)
	if err != nil {
		return pkgerrors.Wrapf(err, "loading %s", day)
	}
	s.gen++
	s.day = day
	s.turns = turns
	s.options = nil
	if len(turns) > 0 {
		s.state = Active
	} else {
		s.state = AwaitingStarters
	}
	return nil
}

func (s *Session) syncDayLocked(now time.Time) error {
	today := timeutil.BucketOf(now)
	if s.state != Idle && s.day == today {
		return nil
	}
	if s.state != Idle {
		log.Info().Stringer("from", s.day).Stringer("to", today).Msg("session: day changed")
	}
	if err := s.loadLocked(today); err != nil {
		return err
	}
	if s.state == AwaitingStarters {
		if opts, ok := s.starters.Get(now); ok {
			s.options = opts
		}
	}
	return nil
}

func (s *Session) offerStartersLocked(ctx context.Context, now time.Time) *Pending {
	if opts, ok := s.starters.Get(now); ok {
		s.options = opts
		return nil
	}
	if s.inflight {
		return nil
	}
	if !s.gate.CanCall(now) {
		log.Debug().Msg("session: quota reached, no starters today")
		return nil
	}
	if err := s.gate.RecordCall(now); err != nil {
		log.Warn().Err(err).Msg("session: recording call")
	}
	req := model.Request{
		System:      model.SystemInstruction,
		Messages:    []model.Message{{Role: entry.User, Content: starter.Prompt}},
		Model:       s.modelName,
		Temperature: s.temperature,
	}
	return s.launchLocked(ctx, callStarters, req, now)
}

func (s *Session) launchLocked(ctx context.Context, kind callKind, req model.Request, at time.Time) *Pending {
	t := tag{day: s.day, gen: s.gen}
	p := &Pending{done: make(chan struct{})}
	s.inflight = true
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer close(p.done)

		callCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, s.timeout)
			defer cancel()
		}
		reply, err := s.client.Complete(callCtx, req)
		p.err = s.finish(t, kind, at, reply, err)
	}()
	return p
}

func (s *Session) finish(t tag, kind callKind, at time.Time, reply string, callErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight = false
	// A starter result only goes stale when the day changes.
	if t.day != s.day || (kind == callReply && t.gen != s.gen) {
		log.Debug().Stringer("day", t.day).Uint64("gen", t.gen).Msg("session: discarding stale reply")
		return ErrStaleReply
	}
	if callErr == nil && strings.TrimSpace(reply) == "" {
		callErr = model.ErrEmptyReply
	}

	if kind == callStarters {
		return s.finishStartersLocked(at, reply, callErr)
	}
	return s.finishReplyLocked(reply, callErr)
}

func (s *Session) finishReplyLocked(reply string, callErr error) error {
	s.state = Active
	if callErr != nil {
		log.Warn().Err(callErr).Msg("session: reply failed")
		return fmt.Errorf("%w: %w", ErrReplyFailed, callErr)
	}

	text := strings.TrimSpace(reply) + FollowUps[s.intn(len(FollowUps))]
	s.turns = append(s.turns, entry.NewTurn(entry.Assistant, text))
	if err := s.journal.Put(s.day, s.turns); err != nil {
		return pkgerrors.Wrap(err, "saving transcript")
	}
	return nil
}

func (s *Session) finishStartersLocked(at time.Time, reply string, callErr error) error {
	if callErr != nil {
		log.Warn().Err(callErr).Msg("session: fetching starters failed")
		return fmt.Errorf("%w: %w", ErrReplyFailed, callErr)
	}
	opts := starter.Parse(reply)
	if len(opts) == 0 {
		return fmt.Errorf("%w: %w", ErrReplyFailed, model.ErrEmptyReply)
	}
	if err := s.starters.Set(at, opts); err != nil {
		log.Warn().Err(err).Msg("session: caching starters")
	}
	if s.state == AwaitingStarters && len(s.turns) == 0 {
		s.options = opts
	}
	return nil
}
