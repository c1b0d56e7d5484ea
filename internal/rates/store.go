package rates

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store loads rate configuration from Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

// LoadActive fetches all active rate entries keyed by code. An unreachable
// store propagates the error; the caller decides whether the request fails.
func (s *Store) LoadActive(ctx context.Context) (map[string]Entry, error) {
	if s == nil || s.Pool == nil {
		return nil, fmt.Errorf("rate store not configured")
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT code, name, COALESCE(display_name, ''), value, value_type, category
		FROM rate_config
		WHERE is_active = true
	`)
	if err != nil {
		return nil, fmt.Errorf("query rate config: %w", err)
	}
	defer rows.Close()

	entries := map[string]Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Code, &e.Name, &e.DisplayName, &e.Value, &e.ValueType, &e.Category); err != nil {
			return nil, fmt.Errorf("scan rate config: %w", err)
		}
		entries[e.Code] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rate config: %w", err)
	}
	return entries, nil
}
