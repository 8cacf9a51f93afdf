package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cartrepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/cart"
	testutil "github.com/riolentius/hideki-store-backend/internal/repository/postgres/testutil"
	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type settledGateway struct{}

func (settledGateway) CreateTransaction(context.Context, orderuc.Transaction) (*paymentuc.Token, error) {
	return &paymentuc.Token{Token: "tok", RedirectURL: "https://pay.example/tok"}, nil
}

func (settledGateway) Status(context.Context, string) (*paymentuc.Outcome, error) {
	return &paymentuc.Outcome{Kind: paymentuc.OutcomeSuccess, TransactionStatus: "settlement"}, nil
}

func TestAttemptStore_PendingThenRecheckClearsCart(t *testing.T) {
	db := testutil.MustOpenDB(t)
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	carts := cartrepo.NewCartStoreAdapter(cartrepo.NewCartRepo(db))
	store := NewAttemptStoreAdapter(NewAttemptRepo(db))
	r := paymentuc.NewReconciler(store, settledGateway{}, paymentuc.Config{ServerKey: "k", GatewayTimeout: time.Second}, nil)

	cartID := uuid.NewString()
	_, err := carts.Update(ctx, cartID, func(c *cartuc.Cart) error {
		c.Add(cartuc.Item{ProductID: "p1", Price: 1000000}, 2, cartuc.Defaults{Size: "M"})
		return nil
	})
	require.NoError(t, err)

	txn := &orderuc.Transaction{OrderID: orderuc.NewOrderID(time.Now()), Subtotal: 2000000, GrossTotal: 1916000}
	a, err := r.Begin(ctx, txn, cartID)
	require.NoError(t, err)
	require.Equal(t, paymentuc.StateAwaitingInteraction, a.State)

	_, err = r.Begin(ctx, txn, cartID)
	require.ErrorIs(t, err, paymentuc.ErrDuplicateOrder)

	a, err = r.Resolve(ctx, txn.OrderID, paymentuc.Outcome{Kind: paymentuc.OutcomePending})
	require.NoError(t, err)
	require.Equal(t, paymentuc.StatePending, a.State)

	c, err := carts.Get(ctx, cartID)
	require.NoError(t, err)
	require.False(t, c.IsEmpty())

	a, err = r.Recheck(ctx, txn.OrderID)
	require.NoError(t, err)
	require.Equal(t, paymentuc.StateSuccess, a.State)
	require.NotNil(t, a.ResolvedAt)
	require.Equal(t, int64(1916000), a.Transaction.GrossTotal)

	c, err = carts.Get(ctx, cartID)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())

	list, err := store.ListByCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAttemptStore_NotFound(t *testing.T) {
	db := testutil.MustOpenDB(t)
	testutil.TruncateAll(t, db)

	store := NewAttemptStoreAdapter(NewAttemptRepo(db))
	_, err := store.Get(context.Background(), "HDK-missing")
	require.ErrorIs(t, err, paymentuc.ErrAttemptNotFound)

	_, err = store.Transition(context.Background(), "HDK-missing", func(*paymentuc.Attempt) error { return nil })
	require.ErrorIs(t, err, paymentuc.ErrAttemptNotFound)
}

func TestAttemptStore_FailedTransitionKeepsCart(t *testing.T) {
	db := testutil.MustOpenDB(t)
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	carts := cartrepo.NewCartStoreAdapter(cartrepo.NewCartRepo(db))
	store := NewAttemptStoreAdapter(NewAttemptRepo(db))

	cartID := uuid.NewString()
	_, err := carts.Update(ctx, cartID, func(c *cartuc.Cart) error {
		c.Add(cartuc.Item{ProductID: "p1", Price: 500000}, 1, cartuc.Defaults{Size: "M"})
		return nil
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	a := &paymentuc.Attempt{
		OrderID:     orderuc.NewOrderID(now),
		CartID:      cartID,
		State:       paymentuc.StateAwaitingInteraction,
		Transaction: orderuc.Transaction{GrossTotal: 516000},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.Create(ctx, a))

	// the row update fails after the cart step, so both roll back together
	_, err = store.Transition(ctx, a.OrderID, func(cur *paymentuc.Attempt) error {
		cur.State = paymentuc.StateSuccess
		cur.OrderID = "HDK-other"
		return nil
	})
	require.Error(t, err)

	c, err := carts.Get(ctx, cartID)
	require.NoError(t, err)
	require.False(t, c.IsEmpty())

	got, err := store.Get(ctx, a.OrderID)
	require.NoError(t, err)
	require.Equal(t, paymentuc.StateAwaitingInteraction, got.State)

	saved, err := store.Transition(ctx, a.OrderID, func(cur *paymentuc.Attempt) error {
		cur.State = paymentuc.StateSuccess
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, paymentuc.StateSuccess, saved.State)

	c, err = carts.Get(ctx, cartID)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())
}
