package shipping

import "strings"

type Option struct {
	Courier     string `json:"courier"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	ETD         string `json:"etd"`
	Note        string `json:"note,omitempty"`
}

// ID identifies an option within a quote, e.g. "jne:REG".
func (o Option) ID() string {
	return strings.ToLower(o.Courier) + ":" + strings.ToUpper(o.Service)
}

type RateRequest struct {
	Origin      string
	Destination string
	WeightGrams int
	Courier     string
}

type Quote struct {
	Options     []Option `json:"options"`
	Default     *Option  `json:"default,omitempty"`
	WeightGrams int      `json:"weightGrams"`
	Degraded    bool     `json:"degraded"`
}

const fallbackNote = "Estimasi tarif, biaya final dapat berbeda"

// FallbackOptions is used when the rate provider is unreachable so checkout
// can continue with a fixed estimate per courier.
func FallbackOptions() []Option {
	return []Option{
		{Courier: "jne", Service: "REG", Description: "Layanan Reguler", Cost: 15000, ETD: "2-3", Note: fallbackNote},
		{Courier: "pos", Service: "Pos Reguler", Description: "Pos Reguler", Cost: 18000, ETD: "3-5", Note: fallbackNote},
		{Courier: "tiki", Service: "REG", Description: "Regular Service", Cost: 25000, ETD: "2-4", Note: fallbackNote},
	}
}
