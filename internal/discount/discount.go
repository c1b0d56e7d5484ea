package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppliesTo values describing which base fee component a code targets.
const (
	AppliesSiteFee        = "site_fee"
	AppliesSetupBreakdown = "setup_breakdown"
	AppliesBoth           = "both"
)

// Code is a redeemable discount definition.
type Code struct {
	Code            string     `json:"code"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent float64    `json:"discount_percent"`
	AppliesTo       string     `json:"applies_to"`
	IsActive        bool       `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// Redeemable reports whether the code can be honoured at the given instant.
func (c Code) Redeemable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// Store resolves discount codes from Postgres.
type Store struct {
	Pool *pgxpool.Pool
	Now  func() time.Time
}

// Lookup resolves a code, matching case-insensitively. Absent, inactive and
// expired codes all yield (Code{}, false, nil): no discount, no error.
func (s *Store) Lookup(ctx context.Context, code string) (Code, bool, error) {
	if s == nil || s.Pool == nil {
		return Code{}, false, errors.New("discount store not configured")
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return Code{}, false, nil
	}

	var c Code
	err := s.Pool.QueryRow(ctx, `
		SELECT code, COALESCE(description, ''), discount_percent, applies_to, is_active, expires_at
		FROM quote_discount_codes
		WHERE code = $1 AND is_active = true
	`, normalized).Scan(&c.Code, &c.Description, &c.DiscountPercent, &c.AppliesTo, &c.IsActive, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Code{}, false, nil
		}
		return Code{}, false, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if !c.Redeemable(now()) {
		return Code{}, false, nil
	}
	return c, true, nil
}
