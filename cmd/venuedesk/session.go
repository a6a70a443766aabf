package main

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"

	"github.com/nhle/venuedesk/internal/credential"
	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/readstate"
	"github.com/nhle/venuedesk/internal/source"
	"github.com/nhle/venuedesk/internal/source/rest"
	"github.com/nhle/venuedesk/internal/source/supabase"
	"github.com/nhle/venuedesk/internal/store"
	vsync "github.com/nhle/venuedesk/internal/sync"
	"github.com/nhle/venuedesk/internal/synth"
)

// session owns the poller and the resources behind it.
type session struct {
	poller *vsync.Poller
	closer func()
}

func (s *session) Close() {
	s.poller.Stop()
	if s.closer != nil {
		s.closer()
	}
}

// newSession wires the backend, read-state and poller described by cfg.
// The poller is not started.
func newSession(ctx context.Context, cfg *model.AppConfig) (*session, error) {
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	persister, closer, err := newPersister(ctx, cfg.ReadState)
	if err != nil {
		return nil, err
	}

	p, err := vsync.New(vsync.Config{
		Backend:      backend,
		ReadState:    readstate.Open(ctx, persister),
		Windows:      synth.WindowsFromConfig(cfg.Windows),
		Interval:     time.Duration(cfg.Poll.IntervalSec) * time.Second,
		FetchTimeout: time.Duration(cfg.Poll.FetchTimeoutSec) * time.Second,
		Clock:        clock.WallClock,
	})
	if err != nil {
		closer()
		return nil, err
	}

	logger.Infof("using %s backend at %s, read-state in %s", backend.Name(), cfg.Backend.BaseURL, cfg.ReadState.Driver)
	return &session{poller: p, closer: closer}, nil
}

func newBackend(cfg *model.AppConfig) (source.Backend, error) {
	token, err := credential.Token()
	if err != nil {
		// A locked or missing keyring is not fatal; reads may be public.
		logger.Warningf("reading backend token: %v", err)
	}

	switch cfg.Backend.Kind {
	case model.BackendREST:
		return rest.NewAdapter(cfg.Backend.BaseURL, token), nil
	case model.BackendSupabase:
		return supabase.NewAdapter(cfg.Backend.BaseURL, cfg.Backend.AnonKey, token), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
	}
}

func newPersister(ctx context.Context, cfg model.ReadStateConfig) (readstate.Persister, func(), error) {
	switch cfg.Driver {
	case model.ReadStateMemory:
		return readstate.NewMemory(), func() {}, nil

	case model.ReadStatePostgres:
		s, err := store.NewPostgresStore(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return readstate.NewKV(s), closeStore(s), nil

	case model.ReadStateSQLite:
		s, err := store.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return readstate.NewKV(s), closeStore(s), nil

	default:
		return nil, nil, fmt.Errorf("unknown read-state driver %q", cfg.Driver)
	}
}

func closeStore(s store.Store) func() {
	return func() {
		if err := s.Close(); err != nil {
			logger.Warningf("closing read-state store: %v", err)
		}
	}
}
