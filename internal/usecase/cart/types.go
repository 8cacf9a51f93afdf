package cart

import "time"

type Item struct {
	ProductID   string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Brand       string `json:"brand"`
	Image       string `json:"image"`
	WeightGrams int    `json:"weightGrams"`
}

// Key is the identity of a cart line. The same product in two sizes is two lines.
type Key struct {
	ProductID string
	Size      string
}

type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Defaults fill fields a product listing may leave empty.
type Defaults struct {
	Brand       string
	Size        string
	WeightGrams int
}

type AddInput struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type Summary struct {
	Cart          *Cart `json:"cart"`
	TotalQuantity int   `json:"totalQuantity"`
	Subtotal      int64 `json:"subtotal"`
}
