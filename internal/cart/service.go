package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrItemNotFound is returned when a line item does not exist in the cart.
var ErrItemNotFound = errors.New("cart: item not found")

// ItemParams describes the product variant being added. Catalog lookup is
// the storefront's concern; the service only stores what it is given.
type ItemParams struct {
	ProductID string
	VariantID string
	Name      string
	Price     float64
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context) (*Cart, error) {
	c := &Cart{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Currency:      Currency{Code: "USD"},
		TaxesIncluded: true,
		LineItems:     []LineItem{},
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Cart, error) {
	return s.store.Get(ctx, id)
}

// AddItem appends a line item, or increments the quantity when the variant
// is already in the cart.
func (s *Service) AddItem(ctx context.Context, cartID string, params ItemParams) (*Cart, error) {
	c, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	added := false
	for i := range c.LineItems {
		if c.LineItems[i].VariantID == params.VariantID {
			c.LineItems[i].Quantity++
			added = true
			break
		}
	}
	if !added {
		c.LineItems = append(c.LineItems, LineItem{
			ID:        uuid.NewString(),
			ProductID: params.ProductID,
			VariantID: params.VariantID,
			Name:      params.Name,
			Quantity:  1,
			Price:     params.Price,
		})
	}

	c.recalculate()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateItem(ctx context.Context, cartID, itemID string, quantity int64) (*Cart, error) {
	c, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.LineItems {
		if c.LineItems[i].ID == itemID {
			c.LineItems[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	c.recalculate()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) (*Cart, error) {
	c, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items := c.LineItems[:0]
	for _, item := range c.LineItems {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	c.LineItems = items

	c.recalculate()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear deletes the cart, as after a completed checkout.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	return s.store.Delete(ctx, cartID)
}
