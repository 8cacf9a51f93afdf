package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	cartrepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/cart"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type AttemptStoreAdapter struct {
	repo *AttemptRepo
}

var _ paymentuc.Store = (*AttemptStoreAdapter)(nil)

func NewAttemptStoreAdapter(repo *AttemptRepo) *AttemptStoreAdapter {
	return &AttemptStoreAdapter{repo: repo}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (a *AttemptStoreAdapter) Create(ctx context.Context, at *paymentuc.Attempt) error {
	err := a.repo.Insert(ctx, toAttemptRow(*at))
	if isUniqueViolation(err) {
		return paymentuc.ErrDuplicateOrder
	}
	return err
}

func (a *AttemptStoreAdapter) Get(ctx context.Context, orderID string) (*paymentuc.Attempt, error) {
	row, err := a.repo.GetByOrderID(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, paymentuc.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapAttemptRow(*row), nil
}

func (a *AttemptStoreAdapter) ListByCart(ctx context.Context, cartID string) ([]paymentuc.Attempt, error) {
	rows, err := a.repo.ListByCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	out := make([]paymentuc.Attempt, 0, len(rows))
	for _, r := range rows {
		out = append(out, *mapAttemptRow(r))
	}
	return out, nil
}

func (a *AttemptStoreAdapter) Transition(ctx context.Context, orderID string, fn func(*paymentuc.Attempt) error) (*paymentuc.Attempt, error) {
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1) lock attempt row (serializes webhook, recheck and browser outcome)
	row, err := lockAttempt(ctx, tx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, paymentuc.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}

	// 2) apply the transition
	cur := mapAttemptRow(*row)
	if err := fn(cur); err != nil {
		return mapAttemptRow(*row), err
	}

	// 3) settle the cart in the same commit
	if cur.State == paymentuc.StateSuccess && row.State != string(paymentuc.StateSuccess) {
		if err := cartrepo.ClearItems(ctx, tx, cur.CartID); err != nil {
			return mapAttemptRow(*row), fmt.Errorf("clear cart: %w", err)
		}
	}

	// 4) persist
	saved, err := updateAttempt(ctx, tx, toAttemptRow(*cur))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return mapAttemptRow(*saved), nil
}

func toAttemptRow(a paymentuc.Attempt) AttemptRow {
	return AttemptRow{
		OrderID:        a.OrderID,
		CartID:         a.CartID,
		State:          string(a.State),
		Txn:            a.Transaction,
		GrossTotal:     a.Transaction.GrossTotal,
		Token:          a.Token,
		RedirectURL:    a.RedirectURL,
		LastOutcome:    a.LastOutcome,
		FailureReason:  a.FailureReason,
		ReviewRequired: a.ReviewRequired,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		ResolvedAt:     a.ResolvedAt,
	}
}

func mapAttemptRow(r AttemptRow) *paymentuc.Attempt {
	return &paymentuc.Attempt{
		OrderID:        r.OrderID,
		CartID:         r.CartID,
		State:          paymentuc.State(r.State),
		Transaction:    r.Txn,
		Token:          r.Token,
		RedirectURL:    r.RedirectURL,
		LastOutcome:    r.LastOutcome,
		FailureReason:  r.FailureReason,
		ReviewRequired: r.ReviewRequired,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
}
