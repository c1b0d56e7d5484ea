package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no quote exists for the requested identifier.
var ErrNotFound = errors.New("quote not found")

// Quote lifecycle statuses. The calculation engine never mutates status.
const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
	StatusAccepted  = "accepted"
	StatusInvoiced  = "invoiced"
)

// StoredQuote is a persisted quote record with its original input and
// computed result.
type StoredQuote struct {
	ID           string
	Status       string
	Input        Input
	Calculation  Calculation
	TotalCents   int64
	UserEmail    string
	DiscountCode string
	CreatedAt    time.Time
}

// Store persists finalized calculations in Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

// Create stores the quote and its line items in one transaction and returns
// the assigned identifier. The persisted line items get sequential display
// orders; the calculation payload keeps the band-based ordering.
func (s *Store) Create(ctx context.Context, in Input, calc Calculation, discountCode string) (string, time.Time, error) {
	if s == nil || s.Pool == nil {
		return "", time.Time{}, errors.New("quote store not configured")
	}
	inputPayload, err := json.Marshal(in)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal input: %w", err)
	}
	resultPayload, err := json.Marshal(calc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal calculation: %w", err)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", time.Time{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	id := uuid.NewString()
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (id, status, input_payload, calculated_result, total_cents, user_email, discount_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, id, StatusDraft, inputPayload, resultPayload, calc.Total, nullable(in.Email), nullable(discountCode)).Scan(&createdAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert quote: %w", err)
	}

	for i, item := range calc.LineItems {
		_, err = tx.Exec(ctx, `
			INSERT INTO quote_line_items (id, quote_id, category, description, quantity, unit_price_cents, total_cents, display_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, uuid.NewString(), id, item.Category, item.Description, item.Quantity, item.UnitPriceCents, item.TotalCents, i+1)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("insert line item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", time.Time{}, err
	}
	return id, createdAt, nil
}

// Get fetches a stored quote by identifier.
func (s *Store) Get(ctx context.Context, id string) (StoredQuote, error) {
	if s == nil || s.Pool == nil {
		return StoredQuote{}, errors.New("quote store not configured")
	}
	if _, err := uuid.Parse(id); err != nil {
		return StoredQuote{}, ErrNotFound
	}

	var (
		stored        StoredQuote
		inputPayload  []byte
		resultPayload []byte
		userEmail     *string
		discountCode  *string
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT id, status, input_payload, calculated_result, total_cents, user_email, discount_code, created_at
		FROM quotes
		WHERE id = $1
	`, id).Scan(&stored.ID, &stored.Status, &inputPayload, &resultPayload, &stored.TotalCents, &userEmail, &discountCode, &stored.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StoredQuote{}, ErrNotFound
		}
		return StoredQuote{}, fmt.Errorf("select quote: %w", err)
	}

	if err := json.Unmarshal(inputPayload, &stored.Input); err != nil {
		return StoredQuote{}, fmt.Errorf("unmarshal input: %w", err)
	}
	if err := json.Unmarshal(resultPayload, &stored.Calculation); err != nil {
		return StoredQuote{}, fmt.Errorf("unmarshal calculation: %w", err)
	}
	if userEmail != nil {
		stored.UserEmail = *userEmail
	}
	if discountCode != nil {
		stored.DiscountCode = *discountCode
	}
	return stored, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
