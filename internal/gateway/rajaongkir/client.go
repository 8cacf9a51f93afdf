package rajaongkir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ shippinguc.Resolver = (*Client)(nil)

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type costResponse struct {
	RajaOngkir struct {
		Status struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"status"`
		Results []struct {
			Code  string `json:"code"`
			Name  string `json:"name"`
			Costs []struct {
				Service     string `json:"service"`
				Description string `json:"description"`
				Cost        []struct {
					Value int64  `json:"value"`
					ETD   string `json:"etd"`
					Note  string `json:"note"`
				} `json:"cost"`
			} `json:"costs"`
		} `json:"results"`
	} `json:"rajaongkir"`
}

// Rates posts one courier lookup to /cost and flattens every service's
// first price into an Option.
func (c *Client) Rates(ctx context.Context, req shippinguc.RateRequest) ([]shippinguc.Option, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("rajaongkir api key is empty")
	}

	form := url.Values{}
	form.Set("origin", req.Origin)
	form.Set("destination", req.Destination)
	form.Set("weight", strconv.Itoa(req.WeightGrams))
	form.Set("courier", req.Courier)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cost", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("key", c.apiKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rajaongkir cost failed status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed costResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("rajaongkir decode: %w", err)
	}
	if code := parsed.RajaOngkir.Status.Code; code != 0 && code != http.StatusOK {
		return nil, fmt.Errorf("rajaongkir status=%d %s", code, parsed.RajaOngkir.Status.Description)
	}

	var out []shippinguc.Option
	for _, r := range parsed.RajaOngkir.Results {
		for _, svc := range r.Costs {
			if len(svc.Cost) == 0 {
				continue
			}
			price := svc.Cost[0]
			out = append(out, shippinguc.Option{
				Courier:     strings.ToLower(r.Code),
				Service:     svc.Service,
				Description: svc.Description,
				Cost:        price.Value,
				ETD:         strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(price.ETD), "HARI")),
				Note:        price.Note,
			})
		}
	}
	return out, nil
}
