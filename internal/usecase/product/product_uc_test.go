package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	items map[string]Product
	lastQ ListQuery
}

func (m *memStore) Create(_ context.Context, in CreateInput) (*Product, error) {
	p := Product{
		ID:        uuid.NewString(),
		Kind:      in.Kind,
		Name:      in.Name,
		Brand:     in.Brand,
		Price:     in.Price,
		IsActive:  true,
		Helmet:    in.Helmet,
		Apparel:   in.Apparel,
		Accessory: in.Accessory,
		Bundle:    in.Bundle,
	}
	m.items[p.ID] = p
	return &p, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memStore) List(_ context.Context, q ListQuery) ([]Product, error) {
	m.lastQ = q
	var out []Product
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func helmetInput() CreateInput {
	return CreateInput{
		Kind:  KindHelmet,
		Name:  " KYT NF-R ",
		Brand: "KYT",
		Price: 1250000,
		Helmet: &HelmetDetail{
			Type:          "full-face",
			Certification: "SNI",
			Sizes:         []string{"M", "L", "XL"},
		},
	}
}

func TestCreate_TrimsAndValidates(t *testing.T) {
	uc := New(&memStore{items: map[string]Product{}})

	p, err := uc.Create(context.Background(), helmetInput())
	require.NoError(t, err)
	require.Equal(t, "KYT NF-R", p.Name)
	require.True(t, p.AcceptsSize("xl"))
	require.False(t, p.AcceptsSize("S"))
}

func TestValidate_PerKind(t *testing.T) {
	cases := map[string]func(*CreateInput){
		"no price":       func(in *CreateInput) { in.Price = 0 },
		"helmet sizes":   func(in *CreateInput) { in.Helmet.Sizes = nil },
		"two details":    func(in *CreateInput) { in.Accessory = &AccessoryDetail{} },
		"kind mismatch":  func(in *CreateInput) { in.Kind = KindApparel },
		"unknown kind":   func(in *CreateInput) { in.Kind = "sticker" },
		"missing detail": func(in *CreateInput) { in.Helmet = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := helmetInput()
			mutate(&in)
			require.ErrorIs(t, Validate(in), ErrInvalidInput)
		})
	}

	bundle := CreateInput{
		Kind:   KindBundle,
		Name:   "Paket Touring",
		Price:  900000,
		Bundle: &BundleDetail{ProductIDs: []string{"a", "b"}, OriginalPrice: 1100000},
	}
	require.NoError(t, Validate(bundle))
	bundle.Bundle.OriginalPrice = 800000
	require.ErrorIs(t, Validate(bundle), ErrInvalidInput)
}

func TestGet(t *testing.T) {
	store := &memStore{items: map[string]Product{}}
	uc := New(store)
	ctx := context.Background()

	p, err := uc.Create(ctx, helmetInput())
	require.NoError(t, err)

	got, err := uc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	_, err = uc.Get(ctx, "abc")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)

	inactive := store.items[p.ID]
	inactive.IsActive = false
	store.items[p.ID] = inactive
	_, err = uc.Get(ctx, p.ID)
	require.ErrorIs(t, err, ErrInactive)
}

func TestList_ClampsPaging(t *testing.T) {
	store := &memStore{items: map[string]Product{}}
	uc := New(store)

	_, err := uc.List(context.Background(), ListQuery{Limit: 500, Offset: -3})
	require.NoError(t, err)
	require.Equal(t, 20, store.lastQ.Limit)
	require.Equal(t, 0, store.lastQ.Offset)

	bad := Kind("sticker")
	_, err = uc.List(context.Background(), ListQuery{Kind: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)
}
