package rajaongkir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

const jneBody = `{"rajaongkir":{"status":{"code":200,"description":"OK"},"results":[{"code":"jne","name":"Jalur Nugraha Ekakurir (JNE)","costs":[
{"service":"OKE","description":"Ongkos Kirim Ekonomis","cost":[{"value":12000,"etd":"3-6","note":""}]},
{"service":"REG","description":"Layanan Reguler","cost":[{"value":15000,"etd":"2-3 HARI","note":""}]},
{"service":"YES","description":"Yakin Esok Sampai","cost":[]}]}]}}`

func TestRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cost", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("key"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "151", r.PostForm.Get("origin"))
		require.Equal(t, "23", r.PostForm.Get("destination"))
		require.Equal(t, "1500", r.PostForm.Get("weight"))
		require.Equal(t, "jne", r.PostForm.Get("courier"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jneBody))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "secret", time.Second)
	opts, err := c.Rates(context.Background(), shippinguc.RateRequest{
		Origin: "151", Destination: "23", WeightGrams: 1500, Courier: "jne",
	})
	require.NoError(t, err)
	require.Len(t, opts, 2)
	require.Equal(t, "jne:REG", opts[1].ID())
	require.Equal(t, int64(15000), opts[1].Cost)
	require.Equal(t, "2-3", opts[1].ETD)
}

func TestRates_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"rajaongkir":{"status":{"code":400,"description":"Invalid key"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "bad", time.Second)
	_, err := c.Rates(context.Background(), shippinguc.RateRequest{Courier: "jne"})
	require.ErrorContains(t, err, "status=400")
}

func TestRates_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Rates(ctx, shippinguc.RateRequest{Courier: "pos"})
	require.Error(t, err)
}

func TestRates_MissingKey(t *testing.T) {
	c := New("http://127.0.0.1:1", "", time.Second)
	_, err := c.Rates(context.Background(), shippinguc.RateRequest{Courier: "jne"})
	require.Error(t, err)
}
