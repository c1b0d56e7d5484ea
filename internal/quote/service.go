package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-studio/internal/discount"
	"github.com/noah-isme/backend-studio/internal/obs"
	"github.com/noah-isme/backend-studio/internal/rates"
)

// RateSource supplies a fresh rate table snapshot per calculation.
type RateSource interface {
	Snapshot(ctx context.Context) (*rates.Table, error)
}

// Storage persists finalized calculations and retrieves them by identifier.
type Storage interface {
	Create(ctx context.Context, in Input, calc Calculation, discountCode string) (string, time.Time, error)
	Get(ctx context.Context, id string) (StoredQuote, error)
}

// DiscountSource resolves discount codes. Absent and expired codes both
// resolve to no discount.
type DiscountSource interface {
	Lookup(ctx context.Context, code string) (discount.Code, bool, error)
}

// Service orchestrates quote generation: rate loading, calculation,
// discount-code resolution and persistence.
type Service struct {
	Rates     RateSource
	Store     Storage
	Discounts DiscountSource
	Logger    zerolog.Logger
	Now       func() time.Time
}

// CreateResult is the outcome of a successful quote generation.
type CreateResult struct {
	QuoteID     string
	Calculation Calculation
	CreatedAt   time.Time
}

// Create validates the input, prices it against a fresh rate snapshot and
// persists the result. Either a complete, internally consistent calculation
// is stored or nothing is.
func (s *Service) Create(ctx context.Context, in Input) (CreateResult, error) {
	if err := in.Validate(); err != nil {
		return CreateResult{}, err
	}

	table, err := s.Rates.Snapshot(ctx)
	if err != nil {
		s.observe("rates_unavailable")
		return CreateResult{}, fmt.Errorf("load rates: %w", err)
	}

	engine := Engine{Rates: table, Now: s.Now}
	calc := engine.Calculate(in)

	for _, code := range table.Missing() {
		s.Logger.Warn().Str("rate_code", code).Msg("rate config not found")
		if obs.RateLookupMissTotal != nil {
			obs.RateLookupMissTotal.WithLabelValues(code).Inc()
		}
	}

	// TODO: fold the matched code's percentage into the totals once the
	// discount rules are finalised. Until then the code is only recorded.
	applied := ""
	if in.DiscountCode != "" && s.Discounts != nil {
		code, ok, err := s.Discounts.Lookup(ctx, in.DiscountCode)
		switch {
		case err != nil:
			s.Logger.Error().Err(err).Str("discount_code", in.DiscountCode).Msg("discount lookup failed")
		case ok:
			applied = code.Code
		}
	}

	id, createdAt, err := s.Store.Create(ctx, in, calc, applied)
	if err != nil {
		s.observe("store_failed")
		return CreateResult{}, fmt.Errorf("store quote: %w", err)
	}

	s.observe("ok")
	if obs.QuoteTotalCents != nil {
		obs.QuoteTotalCents.Observe(float64(calc.Total))
	}
	return CreateResult{QuoteID: id, Calculation: calc, CreatedAt: createdAt}, nil
}

// Get retrieves a previously stored quote.
func (s *Service) Get(ctx context.Context, id string) (StoredQuote, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) observe(result string) {
	if obs.QuoteComputedTotal != nil {
		obs.QuoteComputedTotal.WithLabelValues(result).Inc()
	}
}
