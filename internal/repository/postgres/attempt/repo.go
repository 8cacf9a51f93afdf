package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type AttemptRow struct {
	OrderID        string
	CartID         string
	State          string
	Txn            orderuc.Transaction
	GrossTotal     int64
	Token          string
	RedirectURL    string
	LastOutcome    *paymentuc.Outcome
	FailureReason  string
	ReviewRequired bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ResolvedAt     *time.Time
}

type AttemptRepo struct {
	db *pgxpool.Pool
}

func NewAttemptRepo(db *pgxpool.Pool) *AttemptRepo {
	return &AttemptRepo{db: db}
}

func (r *AttemptRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

const attemptColumns = `
  order_id, cart_id::text, state, txn, gross_total,
  token, redirect_url, last_outcome, failure_reason, review_required,
  created_at, updated_at, resolved_at`

func scanAttempt(row pgx.Row) (*AttemptRow, error) {
	var out AttemptRow
	if err := row.Scan(
		&out.OrderID,
		&out.CartID,
		&out.State,
		&out.Txn,
		&out.GrossTotal,
		&out.Token,
		&out.RedirectURL,
		&out.LastOutcome,
		&out.FailureReason,
		&out.ReviewRequired,
		&out.CreatedAt,
		&out.UpdatedAt,
		&out.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AttemptRepo) Insert(ctx context.Context, in AttemptRow) error {
	const q = `
INSERT INTO payment_attempts (
  order_id, cart_id, state, txn, gross_total, created_at, updated_at
)
VALUES ($1, $2::uuid, $3, $4::jsonb, $5, $6, $7);
`
	_, err := r.db.Exec(ctx, q,
		in.OrderID,
		in.CartID,
		in.State,
		in.Txn,
		in.GrossTotal,
		in.CreatedAt,
		in.UpdatedAt,
	)
	return err
}

func (r *AttemptRepo) GetByOrderID(ctx context.Context, orderID string) (*AttemptRow, error) {
	q := `SELECT` + attemptColumns + `
FROM payment_attempts
WHERE order_id = $1;`
	return scanAttempt(r.db.QueryRow(ctx, q, orderID))
}

func (r *AttemptRepo) ListByCart(ctx context.Context, cartID string) ([]AttemptRow, error) {
	q := `SELECT` + attemptColumns + `
FROM payment_attempts
WHERE cart_id = $1::uuid
ORDER BY created_at DESC;`
	rows, err := r.db.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttemptRow
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func lockAttempt(ctx context.Context, tx pgx.Tx, orderID string) (*AttemptRow, error) {
	q := `SELECT` + attemptColumns + `
FROM payment_attempts
WHERE order_id = $1
FOR UPDATE;`
	return scanAttempt(tx.QueryRow(ctx, q, orderID))
}

func updateAttempt(ctx context.Context, tx pgx.Tx, in AttemptRow) (*AttemptRow, error) {
	q := `
UPDATE payment_attempts SET
  state = $2,
  token = $3,
  redirect_url = $4,
  last_outcome = $5::jsonb,
  failure_reason = $6,
  review_required = $7,
  updated_at = $8,
  resolved_at = $9
WHERE order_id = $1
RETURNING` + attemptColumns + `;`
	return scanAttempt(tx.QueryRow(ctx, q,
		in.OrderID,
		in.State,
		in.Token,
		in.RedirectURL,
		in.LastOutcome,
		in.FailureReason,
		in.ReviewRequired,
		in.UpdatedAt,
		in.ResolvedAt,
	))
}
