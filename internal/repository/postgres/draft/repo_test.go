package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	testutil "github.com/riolentius/hideki-store-backend/internal/repository/postgres/testutil"
	checkoutuc "github.com/riolentius/hideki-store-backend/internal/usecase/checkout"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
)

func TestDraftStore_SaveAndReload(t *testing.T) {
	db := testutil.MustOpenDB(t)
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	store := NewDraftStoreAdapter(NewDraftRepo(db))
	cartID := uuid.NewString()

	empty, err := store.Get(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, cartID, empty.CartID)
	require.Empty(t, empty.PromoCode)

	d := &checkoutuc.Draft{
		CartID:     cartID,
		Customer:   orderuc.CustomerInfo{Name: "Siti", DestinationCity: "23", CityName: "Bandung"},
		ShippingID: "jne:REG",
		PromoCode:  "HIDEKI10",
	}
	require.NoError(t, store.Save(ctx, d))
	require.False(t, d.UpdatedAt.IsZero())

	d.PromoCode = ""
	require.NoError(t, store.Save(ctx, d))

	got, err := store.Get(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, "Bandung", got.Customer.CityName)
	require.Equal(t, "jne:REG", got.ShippingID)
	require.Empty(t, got.PromoCode)
}
