package store

import (
	"context"
	"errors"
	"strings"
)

// Keys of the persistence namespace. Day transcripts live below
// KeyJournalEntries, one key per day.
const (
	KeyJournalEntries = "journalEntries"
	KeyCallCount      = "gptCallCount"
	KeyLastCallDate   = "lastCallDate"
	KeyStarterOptions = "cachedStarterOptions"
	KeyUserEmoji      = "userEmoji"
	KeyBotEmoji       = "botEmoji"

	keySep = "/"
)

// ErrNotFound is returned by KV.Read when the key has never been written or
// was erased.
var ErrNotFound = errors.New("store: key not found")

// KV is the durable blob namespace every component persists through. Write
// must be durable when it returns; a concurrent reader sees either the old or
// the new value, never a mix.
type KV interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Erase(key string) error
	Keys(ctx context.Context, prefix string) []string
	Close() error
}

// Watcher is implemented by backends that can report changes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

func join(parts ...string) string {
	return strings.Join(parts, keySep)
}

func split(key string) []string {
	return strings.Split(key, keySep)
}
