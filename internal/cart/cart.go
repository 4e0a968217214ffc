// Package cart is the storefront's line-item store: plain CRUD over a
// key-value backend, no protocol logic. Each cart is stored as one blob.
package cart

import "time"

type Currency struct {
	Code string `json:"code"`
}

type LineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	VariantID string  `json:"variantId"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

type Cart struct {
	ID                     string     `json:"id"`
	CreatedAt              time.Time  `json:"createdAt"`
	Currency               Currency   `json:"currency"`
	TaxesIncluded          bool       `json:"taxesIncluded"`
	LineItems              []LineItem `json:"lineItems"`
	LineItemsSubtotalPrice float64    `json:"lineItemsSubtotalPrice"`
	SubtotalPrice          float64    `json:"subtotalPrice"`
	TotalPrice             float64    `json:"totalPrice"`
}

// Total sums price*quantity over the line items.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.LineItems {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) recalculate() {
	total := c.Total()
	c.LineItemsSubtotalPrice = total
	c.SubtotalPrice = total
	c.TotalPrice = total
}

func (c *Cart) IsEmpty() bool {
	return len(c.LineItems) == 0
}
