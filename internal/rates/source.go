package rates

import (
	"context"

	"github.com/rs/zerolog"
)

// Loader fetches the active rate entries from a backing store.
type Loader interface {
	LoadActive(ctx context.Context) (map[string]Entry, error)
}

// Source produces per-calculation rate table snapshots, optionally fronted
// by a short-lived cache. Every Snapshot call returns a fresh Table so
// concurrent calculations never share miss-tracking state.
type Source struct {
	Store  Loader
	Cache  *Cache
	Logger zerolog.Logger
}

// Snapshot returns a new Table for one calculation.
func (s *Source) Snapshot(ctx context.Context) (*Table, error) {
	if cached, ok, err := s.Cache.Get(ctx); err != nil {
		s.Logger.Warn().Err(err).Msg("rate cache read failed")
	} else if ok {
		return NewTable(cached), nil
	}

	entries, err := s.Store.LoadActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, entries); err != nil {
		s.Logger.Warn().Err(err).Msg("rate cache write failed")
	}
	return NewTable(entries), nil
}
