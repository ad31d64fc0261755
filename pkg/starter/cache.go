// Package starter keeps the day's suggested opening prompts.
package starter

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/timeutil"
)

type record struct {
	Options   []string        `json:"options"`
	FetchedOn timeutil.Bucket `json:"fetchedOn"`
}

// Cache holds starter prompts that are only valid on the day they were
// fetched.
type Cache struct {
	mu  sync.Mutex
	kv  store.KV
	rec record
}

// NewCache loads the cached starters from kv. A malformed record is treated as
// an empty cache.
func NewCache(kv store.KV) (*Cache, error) {
	c := &Cache{kv: kv}
	raw, err := kv.Read(store.KeyStarterOptions)
	if errors.Is(err, store.ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading starter cache")
	}
	if err := json.Unmarshal(raw, &c.rec); err != nil {
		log.Warn().Err(err).Msg("starter: discarding malformed cache")
		c.rec = record{}
	}
	return c, nil
}

// Get returns the cached options when they were fetched on the same day as
// now and there is at least one.
func (c *Cache) Get(now time.Time) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.rec.Options) == 0 || c.rec.FetchedOn != timeutil.BucketOf(now) {
		return nil, false
	}
	return append([]string(nil), c.rec.Options...), true
}

// Set stores options as today's starters.
func (c *Cache) Set(now time.Time, options []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rec = record{
		Options:   append([]string(nil), options...),
		FetchedOn: timeutil.BucketOf(now),
	}
	return c.persist()
}

// Invalidate drops the cached options.
func (c *Cache) Invalidate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rec = record{}
	if err := c.kv.Erase(store.KeyStarterOptions); err != nil {
		return pkgerrors.Wrap(err, "erasing starter cache")
	}
	return nil
}

func (c *Cache) persist() error {
	data, err := json.Marshal(c.rec)
	if err != nil {
		return err
	}
	if err := c.kv.Write(store.KeyStarterOptions, data); err != nil {
		return pkgerrors.Wrap(err, "writing starter cache")
	}
	return nil
}
