package notify

import (
	"context"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/require"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type stubSender struct {
	sent   []*mail.SGMailV3
	status int
}

func (s *stubSender) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	s.sent = append(s.sent, m)
	return &rest.Response{StatusCode: s.status}, nil
}

func paidAttempt() paymentuc.Attempt {
	return paymentuc.Attempt{
		OrderID: "HDK-20261019-x",
		State:   paymentuc.StateSuccess,
		Transaction: orderuc.Transaction{
			Items:         []cartuc.Item{{Name: "Arai RX-7V", Size: "L", Price: 1000000, Quantity: 2}},
			Subtotal:      2000000,
			PromoCode:     "HIDEKI10",
			PromoDiscount: 100000,
			ShippingCost:  15000,
			AdminFee:      1000,
			GrossTotal:    1916000,
			Customer:      orderuc.CustomerInfo{Name: "Budi", Email: "budi@example.id"},
		},
	}
}

func TestRupiah(t *testing.T) {
	require.Equal(t, "Rp 0", Rupiah(0))
	require.Equal(t, "Rp 999", Rupiah(999))
	require.Equal(t, "Rp 1.000", Rupiah(1000))
	require.Equal(t, "Rp 1.916.000", Rupiah(1916000))
	require.Equal(t, "-Rp 100.000", Rupiah(-100000))
}

func TestAttemptResolved_OnlyOnSuccess(t *testing.T) {
	s := &stubSender{status: 202}
	m := NewMailer("", "order@hideki.id", "Hideki", nil)
	m.client = s

	pending := paidAttempt()
	pending.State = paymentuc.StatePending
	require.NoError(t, m.AttemptResolved(context.Background(), pending))
	require.Empty(t, s.sent)

	require.NoError(t, m.AttemptResolved(context.Background(), paidAttempt()))
	require.Len(t, s.sent, 1)
	require.Contains(t, s.sent[0].Subject, "HDK-20261019-x")

	s.status = 401
	require.Error(t, m.AttemptResolved(context.Background(), paidAttempt()))
}

func TestConfirmation(t *testing.T) {
	_, body := Confirmation("Hideki", paidAttempt())
	require.Contains(t, body, "Rp 1.916.000")
	require.Contains(t, body, "HIDEKI10")
}

func TestAttemptResolved_EscapesHTMLBody(t *testing.T) {
	s := &stubSender{status: 202}
	m := NewMailer("", "order@hideki.id", "Hideki", nil)
	m.client = s

	a := paidAttempt()
	a.Transaction.Customer.Name = `<script>alert("x")</script>`
	a.Transaction.Items[0].Name = "Helm <b>Promo</b> & Visor"
	require.NoError(t, m.AttemptResolved(context.Background(), a))
	require.Len(t, s.sent, 1)

	var htmlPart string
	for _, c := range s.sent[0].Content {
		if c.Type == "text/html" {
			htmlPart = c.Value
		}
	}
	require.NotEmpty(t, htmlPart)
	require.NotContains(t, htmlPart, "<script>")
	require.Contains(t, htmlPart, "&lt;script&gt;")
	require.Contains(t, htmlPart, "Helm &lt;b&gt;Promo&lt;/b&gt; &amp; Visor")
}
