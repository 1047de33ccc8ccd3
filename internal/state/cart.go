package state

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/models"
)

// FetchCart reloads the cart from the server, flattening the store-grouped
// response into the product→quantity mapping. The same product id under two
// store groups sums. Fail-safe-empty: on failure the local cart resets to
// empty rather than keeping a stale view, and no retry is attempted.
func (s *Store) FetchCart(ctx context.Context) error {
	token := s.token()
	if token == "" {
		s.replaceCart(map[string]int{})
		return ErrNotAuthenticated
	}

	grouped, err := s.client.GetCart(ctx, token)
	if err != nil {
		if api.IsAuthFailure(err) {
			s.invalidate(EndUnauthorized)
			return err
		}
		s.logger.Error().Err(err).Msg("failed to fetch cart")
		s.replaceCart(map[string]int{})
		return err
	}

	s.replaceCart(flattenCart(grouped))
	return nil
}

// AddItem optimistically increments the local quantity by one, then issues
// the add request. On failure the increment is reverted by exactly one.
// Rapid repeated calls issue one request per call, each independently
// optimistic and independently reversible.
func (s *Store) AddItem(ctx context.Context, productID string) error {
	s.touch()

	token := s.token()
	if token == "" {
		s.notifier.Errorf("Please log in to add items.")
		return ErrNotAuthenticated
	}

	err := s.runOptimistic(ctx,
		func(cart map[string]int) { cart[productID]++ },
		func(cart map[string]int) { cart[productID]-- },
		func(ctx context.Context) error {
			return s.client.AddCartItem(ctx, token, productID)
		},
	)
	if err != nil {
		if !api.IsAuthFailure(err) {
			s.logger.Error().Err(err).Str("product", productID).Msg("failed to add cart item")
			s.notifier.Errorf("Error adding item to cart.")
		}
		return err
	}

	s.notifier.Successf("Item added to cart!")
	return nil
}

// SetQuantity optimistically applies the new quantity (removing the entry at
// zero) and dispatches an update or delete request. Negative quantities and
// missing authentication are no-ops. On failure the previous quantity is
// restored and a full FetchCart additionally runs to guarantee convergence -
// a partial multi-step failure here is more likely to leave the client
// inconsistent than a simple single-field revert would fix.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	s.touch()

	if quantity < 0 {
		return ErrInvalidQuantity
	}

	token := s.token()
	if token == "" {
		return ErrNotAuthenticated
	}

	s.mu.RLock()
	prev, existed := s.snap.Cart[productID]
	s.mu.RUnlock()

	err := s.runOptimistic(ctx,
		func(cart map[string]int) { cart[productID] = quantity },
		func(cart map[string]int) {
			if existed {
				cart[productID] = prev
			} else {
				delete(cart, productID)
			}
		},
		func(ctx context.Context) error {
			if quantity > 0 {
				return s.client.UpdateCartItem(ctx, token, productID, quantity)
			}
			return s.client.DeleteCartItem(ctx, token, productID)
		},
	)
	if err != nil {
		if !api.IsAuthFailure(err) {
			s.logger.Error().Err(err).Str("product", productID).Msg("failed to update cart quantity")
			s.notifier.Errorf("Error updating cart item.")
			_ = s.FetchCart(ctx)
		}
		return err
	}

	return nil
}

// RemoveItem clears a product from the cart. Unlike SetQuantity it works for
// anonymous carts too: local removal always succeeds, the delete request is
// only sent when a session exists.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.touch()

	s.mu.RLock()
	prev, existed := s.snap.Cart[productID]
	s.mu.RUnlock()
	if !existed {
		return nil
	}

	token := s.token()
	if token == "" {
		s.applyCart(func(cart map[string]int) { delete(cart, productID) })
		return nil
	}

	err := s.runOptimistic(ctx,
		func(cart map[string]int) { delete(cart, productID) },
		func(cart map[string]int) { cart[productID] = prev },
		func(ctx context.Context) error {
			return s.client.DeleteCartItem(ctx, token, productID)
		},
	)
	if err != nil {
		if !api.IsAuthFailure(err) {
			s.logger.Error().Err(err).Str("product", productID).Msg("failed to remove cart item")
			s.notifier.Errorf("Error removing item.")
		}
		return err
	}

	return nil
}

// CartCount returns the total number of units in the cart. Never negative.
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, qty := range s.snap.Cart {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// CartAmount returns the monetary total of the cart resolved against the
// catalog cache. Entries whose product is not in the catalog contribute
// zero; they stay in the cart itself (the catalog may simply lag).
func (s *Store) CartAmount() decimal.Decimal {
	s.mu.RLock()
	cart := s.snap.Cart
	s.mu.RUnlock()

	total := decimal.Zero
	for productID, qty := range cart {
		if qty <= 0 {
			continue
		}
		product, ok := s.catalog.Lookup(productID)
		if !ok {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// ResetCart clears the local cart without touching the server. Checkout
// uses it once an order has taken ownership of the cart contents.
func (s *Store) ResetCart() {
	s.replaceCart(map[string]int{})
}

// flattenCart folds the server's store-grouped cart into the flat
// product→quantity mapping, summing duplicates and dropping non-positive
// or unidentified lines.
func flattenCart(grouped map[string][]models.CartLine) map[string]int {
	flat := make(map[string]int)
	for _, lines := range grouped {
		for _, line := range lines {
			if line.ProductID == "" || line.Quantity <= 0 {
				continue
			}
			flat[line.ProductID] += line.Quantity
		}
	}
	return flat
}
