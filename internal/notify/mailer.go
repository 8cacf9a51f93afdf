package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends the order confirmation once a payment settles. Other
// states are ignored.
type Mailer struct {
	client    sender
	from      string
	storeName string
	log       *zap.Logger
}

var _ paymentuc.Listener = (*Mailer)(nil)

func NewMailer(apiKey, from, storeName string, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{
		client:    sendgrid.NewSendClient(apiKey),
		from:      from,
		storeName: storeName,
		log:       log,
	}
}

func (m *Mailer) AttemptResolved(ctx context.Context, a paymentuc.Attempt) error {
	if a.State != paymentuc.StateSuccess {
		return nil
	}
	to := strings.TrimSpace(a.Transaction.Customer.Email)
	if to == "" {
		return fmt.Errorf("order %s has no customer email", a.OrderID)
	}

	subject, body := Confirmation(m.storeName, a)
	msg := mail.NewSingleEmail(
		mail.NewEmail(m.storeName, m.from),
		subject,
		mail.NewEmail(a.Transaction.Customer.Name, to),
		body,
		"<pre>"+html.EscapeString(body)+"</pre>",
	)

	res, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", res.StatusCode, res.Body)
	}

	m.log.Info("order confirmation sent",
		zap.String("order_id", a.OrderID),
		zap.Int("status", res.StatusCode),
	)
	return nil
}

// Confirmation renders the plain-text receipt.
func Confirmation(storeName string, a paymentuc.Attempt) (string, string) {
	txn := a.Transaction
	subject := fmt.Sprintf("[%s] Pembayaran diterima - %s", storeName, a.OrderID)

	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s,\n\nTerima kasih, pembayaran untuk pesanan %s sudah kami terima.\n\n", txn.Customer.Name, a.OrderID)
	for _, it := range txn.Items {
		fmt.Fprintf(&b, "%d x %s (%s)  %s\n", it.Quantity, it.Name, it.Size, Rupiah(it.Price*int64(it.Quantity)))
	}
	fmt.Fprintf(&b, "\nSubtotal     %s\n", Rupiah(txn.Subtotal))
	if txn.PromoDiscount > 0 {
		fmt.Fprintf(&b, "Promo %-6s -%s\n", txn.PromoCode, Rupiah(txn.PromoDiscount))
	}
	fmt.Fprintf(&b, "Ongkir       %s (%s %s)\n", Rupiah(txn.ShippingCost), strings.ToUpper(txn.Shipping.Courier), txn.Shipping.Service)
	fmt.Fprintf(&b, "Biaya admin  %s\n", Rupiah(txn.AdminFee))
	fmt.Fprintf(&b, "Total        %s\n\n", Rupiah(txn.GrossTotal))
	fmt.Fprintf(&b, "Dikirim ke: %s, %s\n", txn.Customer.Address, txn.Customer.CityName)
	return subject, b.String()
}

// Rupiah formats whole rupiah with dot thousand separators, e.g. "Rp 1.916.000".
func Rupiah(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}
