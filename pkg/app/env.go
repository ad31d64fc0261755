package app

import (
	"context"
	"time"

	"tableflip.dev/journally/pkg/model"
	"tableflip.dev/journally/pkg/session"
	"tableflip.dev/journally/pkg/settings"
	"tableflip.dev/journally/pkg/starter"
	"tableflip.dev/journally/pkg/store"
	"tableflip.dev/journally/pkg/usage"
)

// CallTimeout bounds a single model call made from the command line.
const CallTimeout = 60 * time.Second

// Env holds every component opened from one configuration.
type Env struct {
	Config   *store.FileConfig
	KV       store.KV
	Journal  *store.Journal
	Gate     *usage.Gate
	Starters *starter.Cache
	Settings *settings.Settings
}

// Open loads cfg, or the default configuration when cfg is nil, and opens the
// storage it names.
func Open(cfg *store.FileConfig) (*Env, error) {
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, err
		}
	}
	kv, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg, KV: kv, Journal: store.NewJournal(kv)}
	if env.Gate, err = usage.NewGate(kv, cfg.MaxDailyCalls); err != nil {
		_ = kv.Close()
		return nil, err
	}
	if env.Starters, err = starter.NewCache(kv); err != nil {
		_ = kv.Close()
		return nil, err
	}
	if env.Settings, err = settings.Load(kv); err != nil {
		_ = kv.Close()
		return nil, err
	}
	return env, nil
}

// Service returns the past-day operations over this environment's journal.
func (e *Env) Service() *Service {
	return &Service{Journal: e.Journal}
}

// Client builds the configured model client.
func (e *Env) Client(ctx context.Context) (model.Client, error) {
	return model.New(ctx, model.Settings{
		Provider:    e.Config.Provider,
		Model:       e.Config.Model,
		Temperature: e.Config.Temperature,
		OpenAIKey:   e.Config.OpenAIKey,
		GeminiKey:   e.Config.GeminiKey,
		BaseURL:     e.Config.OpenAIBaseURL,
	})
}

// Session wires a chat session to this environment using client.
func (e *Env) Session(client model.Client, opts ...session.Option) *session.Session {
	opts = append([]session.Option{
		session.WithModel(e.Config.Model, e.Config.Temperature),
		session.WithCallTimeout(CallTimeout),
	}, opts...)
	return session.New(e.Journal, e.Gate, e.Starters, client, opts...)
}

func (e *Env) Close() error {
	return e.KV.Close()
}
