package service

import (
	"context"

	"boostshop/internal/session"
)

// CartService mutates the session-resident cart. Nothing here touches
// external storage beyond looking products up.
type CartService struct {
	Products ProductsStore
}

// Add fetches the product and appends it unless the cart already holds that
// identity; adding twice leaves a single line.
func (s *CartService) Add(ctx context.Context, data *session.Data, productID string) error {
	for _, p := range data.Cart {
		if p.ID == productID {
			return nil
		}
	}

	p, err := s.Products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	data.Cart = append(data.Cart, p)
	return nil
}

// Remove filters out the line with the given identity, if present.
func (s *CartService) Remove(data *session.Data, productID string) {
	kept := data.Cart[:0]
	for _, p := range data.Cart {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	data.Cart = kept
}

// Clear empties the cart.
func (s *CartService) Clear(data *session.Data) {
	data.Cart = nil
}
