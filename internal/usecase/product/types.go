package product

import "time"

// Kind discriminates the catalog variants. Each kind carries its own
// detail struct; exactly one of them is set on a valid Product.
type Kind string

const (
	KindHelmet    Kind = "helmet"
	KindApparel   Kind = "apparel"
	KindAccessory Kind = "accessory"
	KindBundle    Kind = "bundle"
)

type Product struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	WeightGrams int       `json:"weightGrams"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Helmet    *HelmetDetail    `json:"helmet,omitempty"`
	Apparel   *ApparelDetail   `json:"apparel,omitempty"`
	Accessory *AccessoryDetail `json:"accessory,omitempty"`
	Bundle    *BundleDetail    `json:"bundle,omitempty"`
}

type HelmetDetail struct {
	Type          string   `json:"type"` // full-face | half-face | modular | cross
	Certification string   `json:"certification"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
}

type ApparelDetail struct {
	Material string   `json:"material"`
	Sizes    []string `json:"sizes"`
	Colors   []string `json:"colors"`
}

type AccessoryDetail struct {
	CompatibleWith []string `json:"compatibleWith"`
}

type BundleDetail struct {
	ProductIDs    []string `json:"productIds"`
	OriginalPrice int64    `json:"originalPrice"`
}

type CreateInput struct {
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	WeightGrams int    `json:"weightGrams"`

	Helmet    *HelmetDetail    `json:"helmet"`
	Apparel   *ApparelDetail   `json:"apparel"`
	Accessory *AccessoryDetail `json:"accessory"`
	Bundle    *BundleDetail    `json:"bundle"`
}

type ListQuery struct {
	Kind   *Kind
	Limit  int
	Offset int
}
