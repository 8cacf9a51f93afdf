package midtrans

import (
	"context"
	"fmt"
	"strings"

	mt "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

// snapAPI and statusAPI are the slices of the SDK clients we call.
type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *mt.Error)
}

type statusAPI interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *mt.Error)
}

type Client struct {
	snap   snapAPI
	status statusAPI
}

var _ paymentuc.Gateway = (*Client)(nil)

func New(serverKey string, production bool) *Client {
	env := mt.Sandbox
	if production {
		env = mt.Production
	}

	s := &snap.Client{}
	s.New(serverKey, env)
	c := &coreapi.Client{}
	c.New(serverKey, env)

	return &Client{snap: s, status: c}
}

// CreateTransaction requests a Snap token. The SDK has no context support;
// the caller bounds the call with its own timeout.
func (c *Client) CreateTransaction(ctx context.Context, txn orderuc.Transaction) (*paymentuc.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, gwErr := c.snap.CreateTransaction(BuildRequest(txn))
	if gwErr != nil {
		return nil, fmt.Errorf("snap create %s: %s", txn.OrderID, gwErr.Message)
	}
	return &paymentuc.Token{Token: res.Token, RedirectURL: res.RedirectURL}, nil
}

func (c *Client) Status(ctx context.Context, orderID string) (*paymentuc.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, gwErr := c.status.CheckTransaction(orderID)
	if gwErr != nil {
		return nil, fmt.Errorf("status %s: %s", orderID, gwErr.Message)
	}
	return OutcomeFrom(res), nil
}

func OutcomeFrom(res *coreapi.TransactionStatusResponse) *paymentuc.Outcome {
	return &paymentuc.Outcome{
		Kind:              paymentuc.MapStatus(res.TransactionStatus, res.FraudStatus),
		TransactionID:     res.TransactionID,
		PaymentType:       res.PaymentType,
		StatusCode:        res.StatusCode,
		TransactionStatus: res.TransactionStatus,
		FraudStatus:       res.FraudStatus,
		GrossAmount:       res.GrossAmount,
		Message:           res.StatusMessage,
	}
}

const maxNameLen = 50

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}

// BuildRequest itemizes the order so the line items sum to the gross
// amount, which the gateway enforces. Shipping, admin fee and the promo
// discount are sent as their own lines.
func BuildRequest(txn orderuc.Transaction) *snap.Request {
	items := make([]mt.ItemDetails, 0, len(txn.Items)+3)
	for _, it := range txn.Items {
		name := it.Name
		if it.Size != "" {
			name += " (" + it.Size + ")"
		}
		items = append(items, mt.ItemDetails{
			ID:    truncate(it.ProductID+"-"+it.Size, maxNameLen),
			Name:  truncate(name, maxNameLen),
			Price: it.Price,
			Qty:   int32(it.Quantity),
			Brand: it.Brand,
		})
	}
	if txn.ShippingCost > 0 {
		items = append(items, mt.ItemDetails{
			ID:    "SHIPPING",
			Name:  truncate("Ongkir "+strings.ToUpper(txn.Shipping.Courier)+" "+txn.Shipping.Service, maxNameLen),
			Price: txn.ShippingCost,
			Qty:   1,
		})
	}
	if txn.AdminFee > 0 {
		items = append(items, mt.ItemDetails{ID: "ADMIN_FEE", Name: "Biaya Admin", Price: txn.AdminFee, Qty: 1})
	}
	if txn.PromoDiscount > 0 {
		items = append(items, mt.ItemDetails{
			ID:    "PROMO",
			Name:  truncate("Promo "+txn.PromoCode, maxNameLen),
			Price: -txn.PromoDiscount,
			Qty:   1,
		})
	}

	first, last := splitName(txn.Customer.Name)
	addr := &mt.CustomerAddress{
		FName:       first,
		LName:       last,
		Phone:       txn.Customer.Phone,
		Address:     txn.Customer.Address,
		City:        txn.Customer.CityName,
		Postcode:    txn.Customer.PostalCode,
		CountryCode: "IDN",
	}

	return &snap.Request{
		TransactionDetails: mt.TransactionDetails{
			OrderID:  txn.OrderID,
			GrossAmt: txn.GrossTotal,
		},
		CustomerDetail: &mt.CustomerDetails{
			FName:    first,
			LName:    last,
			Email:    txn.Customer.Email,
			Phone:    txn.Customer.Phone,
			BillAddr: addr,
			ShipAddr: addr,
		},
		Items: &items,
	}
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
