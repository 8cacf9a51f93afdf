package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func MustInsertHelmet(t *testing.T, db *pgxpool.Pool, name string, price int64, sizes []string) string {
	t.Helper()

	details, err := json.Marshal(map[string]any{
		"helmet": map[string]any{"type": "full-face", "certification": "SNI", "sizes": sizes},
	})
	require.NoError(t, err)

	var id string
	err = db.QueryRow(context.Background(), `
		INSERT INTO products (kind, name, brand, price, weight_grams, details)
		VALUES ('helmet', $1, 'KYT', $2, 1500, $3::jsonb)
		RETURNING id::text
	`, name, price, string(details)).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func MustInsertPromo(t *testing.T, db *pgxpool.Pool, code, typ string, value int64, minOrder, maxDiscount *int64, active bool) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO promo_rules (code, type, value, min_order, max_discount, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, code, typ, value, minOrder, maxDiscount, active)
	require.NoError(t, err)
}

func MustInsertAdmin(t *testing.T, db *pgxpool.Pool, email, password string, active bool) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	var id string
	err = db.QueryRow(context.Background(), `
		INSERT INTO admins (email, password_hash, is_active)
		VALUES ($1, $2, $3)
		RETURNING id::text
	`, email, string(hash), active).Scan(&id)

	require.NoError(t, err)
	return id
}
