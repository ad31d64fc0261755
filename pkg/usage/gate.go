// Package usage tracks how many model calls were made today.
package usage

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/timeutil"
)

// DefaultMaxDailyCalls is the number of model calls allowed per local day.
const DefaultMaxDailyCalls = 10

// Counter is a point-in-time view of the gate.
type Counter struct {
	Count    int       `json:"count"`
	Limit    int       `json:"limit"`
	LastCall time.Time `json:"lastCall"`
}

func (c Counter) Remaining() int {
	if c.Count >= c.Limit {
		return 0
	}
	return c.Limit - c.Count
}

// Gate is advisory bookkeeping for the daily quota. It does not hand out
// permits: callers ask CanCall, and report each attempt with RecordCall.
type Gate struct {
	mu    sync.Mutex
	kv    store.KV
	limit int
	count int
	last  time.Time
}

// NewGate loads the counter persisted in kv.
func NewGate(kv store.KV, limit int) (*Gate, error) {
	if limit <= 0 {
		limit = DefaultMaxDailyCalls
	}
	g := &Gate{kv: kv, limit: limit}

	raw, err := kv.Read(store.KeyCallCount)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, pkgerrors.Wrap(err, "reading call count")
	default:
		n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil || n < 0 {
			log.Warn().Str("value", string(raw)).Msg("usage: ignoring malformed call count")
			n = 0
		}
		g.count = n
	}

	raw, err = kv.Read(store.KeyLastCallDate)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, pkgerrors.Wrap(err, "reading last call date")
	default:
		var ts timeutil.Timestamp
		if err := json.Unmarshal(raw, &ts); err != nil {
			log.Warn().Err(err).Msg("usage: ignoring malformed last call date")
		} else {
			g.last = ts.Time
		}
	}
	return g, nil
}

// CanCall reports whether another call fits in today's quota. When the last
// recorded call was on an earlier day the counter is reset first, and that
// reset is persisted.
func (g *Gate) CanCall(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rollover(now)
	return g.count < g.limit
}

// RecordCall counts one attempted call, whatever its outcome.
func (g *Gate) RecordCall(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.count++
	g.last = now
	return g.persist()
}

// Counter returns the current state after applying any pending reset.
func (g *Gate) Counter(now time.Time) Counter {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rollover(now)
	return Counter{Count: g.count, Limit: g.limit, LastCall: g.last}
}

func (g *Gate) rollover(now time.Time) {
	if timeutil.BucketOf(g.last) == timeutil.BucketOf(now) {
		return
	}
	g.count = 0
	g.last = now
	if err := g.persist(); err != nil {
		log.Warn().Err(err).Msg("usage: persisting daily reset")
	}
}

func (g *Gate) persist() error {
	if err := g.kv.Write(store.KeyCallCount, []byte(strconv.Itoa(g.count))); err != nil {
		return pkgerrors.Wrap(err, "writing call count")
	}
	data, err := json.Marshal(timeutil.Timestamp{Time: g.last})
	if err != nil {
		return err
	}
	if err := g.kv.Write(store.KeyLastCallDate, data); err != nil {
		return pkgerrors.Wrap(err, "writing last call date")
	}
	return nil
}
