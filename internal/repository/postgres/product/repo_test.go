package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	testutil "github.com/riolentius/hideki-store-backend/internal/repository/postgres/testutil"
	productuc "github.com/riolentius/hideki-store-backend/internal/usecase/product"
)

func TestProductStore_CreateGetList(t *testing.T) {
	db := testutil.MustOpenDB(t)
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	uc := productuc.New(NewProductStoreAdapter(NewProductRepo(db)))

	created, err := uc.Create(ctx, productuc.CreateInput{
		Kind:        productuc.KindApparel,
		Name:        "Hideki Riding Jacket",
		Brand:       "Hideki",
		Price:       850000,
		WeightGrams: 1200,
		Apparel:     &productuc.ApparelDetail{Material: "Cordura", Sizes: []string{"M", "L"}},
	})
	require.NoError(t, err)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, productuc.KindApparel, got.Kind)
	require.NotNil(t, got.Apparel)
	require.Nil(t, got.Helmet)
	require.Equal(t, []string{"M", "L"}, got.Sizes())

	helmetID := testutil.MustInsertHelmet(t, db, "KYT TT Course", 2100000, []string{"S", "M"})

	kind := productuc.KindHelmet
	helmets, err := uc.List(ctx, productuc.ListQuery{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, helmets, 1)
	require.Equal(t, helmetID, helmets[0].ID)

	all, err := uc.List(ctx, productuc.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = uc.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, productuc.ErrNotFound)
}
