// Package ledger persists the merchant-side record of every Paynow
// transaction: one row per reference, updated as verified status updates
// arrive. Only signature-verified updates are ever written.
//
// Schema:
//
//	CREATE TABLE paynow_transactions (
//		id               bigserial PRIMARY KEY,
//		reference        text UNIQUE NOT NULL,
//		paynow_reference bigint NOT NULL DEFAULT 0,
//		amount           text NOT NULL,
//		status           text NOT NULL,
//		poll_url         text NOT NULL DEFAULT '',
//		created_at       timestamptz NOT NULL DEFAULT now(),
//		updated_at       timestamptz NOT NULL DEFAULT now()
//	);
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"paynow/internal/paynow"
)

// Querier is the slice of pgx both pgxpool.Pool and pgx.Tx satisfy.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transaction is one ledger row. Amount keeps the exact decimal text.
type Transaction struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	PaynowReference int64     `json:"paynow_reference"`
	Amount          string    `json:"amount"`
	Status          string    `json:"status"`
	PollURL         string    `json:"poll_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Repository struct{ q Querier }

func NewRepository(q Querier) *Repository { return &Repository{q: q} }

// Create records a freshly-initiated transaction.
func (r *Repository) Create(ctx context.Context, t *Transaction) error {
	if err := r.q.QueryRow(ctx, `
		INSERT INTO paynow_transactions (reference, amount, status, poll_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, t.Reference, t.Amount, t.Status, t.PollURL).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// RecordUpdate upserts a verified status update by reference.
func (r *Repository) RecordUpdate(ctx context.Context, u *paynow.Update) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO paynow_transactions (reference, paynow_reference, amount, status, poll_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (reference) DO UPDATE SET
			paynow_reference = EXCLUDED.paynow_reference,
			amount           = EXCLUDED.amount,
			status           = EXCLUDED.status,
			poll_url         = EXCLUDED.poll_url,
			updated_at       = now()
	`, u.Reference, int64(u.PaynowReference), u.Amount.String(), string(u.Status), u.PollURL.String())
	if err != nil {
		return fmt.Errorf("record status update: %w", err)
	}
	return nil
}

// GetByReference returns the ledger row for a merchant reference, or nil
// when none exists.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*Transaction, error) {
	var t Transaction
	err := r.q.QueryRow(ctx, `
		SELECT id, reference, paynow_reference, amount, status, poll_url, created_at, updated_at
		FROM paynow_transactions WHERE reference = $1
	`, reference).Scan(
		&t.ID, &t.Reference, &t.PaynowReference, &t.Amount, &t.Status,
		&t.PollURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

// List returns the most recent transactions, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]*Transaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, reference, paynow_reference, amount, status, poll_url, created_at, updated_at
		FROM paynow_transactions ORDER BY updated_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID, &t.Reference, &t.PaynowReference, &t.Amount, &t.Status,
			&t.PollURL, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
