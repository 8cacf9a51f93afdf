package cart

import "strings"

func (d Defaults) normalizeSize(size string) string {
	s := strings.ToUpper(strings.TrimSpace(size))
	if s == "" {
		return strings.ToUpper(d.Size)
	}
	return s
}

// NormalizeKey applies the default size so that a key without size
// targets the default-size line.
func (d Defaults) NormalizeKey(k Key) Key {
	return Key{ProductID: strings.TrimSpace(k.ProductID), Size: d.normalizeSize(k.Size)}
}

func (c *Cart) indexOf(k Key) int {
	for i := range c.Items {
		if c.Items[i].ProductID == k.ProductID && c.Items[i].Size == k.Size {
			return i
		}
	}
	return -1
}

// Add merges item into the cart. An existing (id, size) line has its
// quantity increased; otherwise a new line is appended with defaults applied.
// Quantities below one are treated as one.
func (c *Cart) Add(item Item, quantity int, d Defaults) {
	if quantity < 1 {
		quantity = 1
	}
	item.ProductID = strings.TrimSpace(item.ProductID)
	item.Size = d.normalizeSize(item.Size)

	if i := c.indexOf(Key{ProductID: item.ProductID, Size: item.Size}); i >= 0 {
		c.Items[i].Quantity += quantity
		return
	}

	if strings.TrimSpace(item.Brand) == "" {
		item.Brand = d.Brand
	}
	if item.WeightGrams <= 0 {
		item.WeightGrams = d.WeightGrams
	}
	item.Quantity = quantity
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of a line, removing it when quantity <= 0.
// It reports whether the line existed.
func (c *Cart) UpdateQuantity(k Key, quantity int, d Defaults) bool {
	k = d.NormalizeKey(k)
	i := c.indexOf(k)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = quantity
	return true
}

func (c *Cart) Remove(k Key, d Defaults) bool {
	return c.UpdateQuantity(k, 0, d)
}

func (c *Cart) Clear() {
	c.Items = []Item{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) TotalQuantity() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the cart subtotal (sum of price x quantity). It excludes
// discount, shipping and fees; the chargeable amount comes from order.Totals.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// WeightGrams is the actual shipping weight of the cart contents.
func (c *Cart) WeightGrams() int {
	w := 0
	for _, it := range c.Items {
		w += it.WeightGrams * it.Quantity
	}
	return w
}

func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = append([]Item(nil), c.Items...)
	return &out
}
