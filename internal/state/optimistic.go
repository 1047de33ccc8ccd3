package state

import (
	"context"

	"github.com/vendora/vendora/internal/api"
)

// runOptimistic is the shared optimistic-mutation shape: apply the change
// locally so consumers see it before any network round trip completes, run
// the effect, and on failure roll the local change back. Authorization
// failures skip the rollback and funnel straight into the session teardown,
// which clears the cart anyway.
func (s *Store) runOptimistic(ctx context.Context, apply, rollback func(cart map[string]int), effect func(context.Context) error) error {
	s.applyCart(apply)

	err := effect(ctx)
	if err == nil {
		return nil
	}

	if api.IsAuthFailure(err) {
		s.invalidate(EndUnauthorized)
		return err
	}

	s.applyCart(rollback)
	return err
}

// applyCart runs fn against a copy of the cart and swaps the snapshot.
// Non-positive entries are pruned on every swap, so no mutation can leave a
// zero or negative quantity behind.
func (s *Store) applyCart(fn func(cart map[string]int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := make(map[string]int, len(s.snap.Cart))
	for k, v := range s.snap.Cart {
		cart[k] = v
	}

	fn(cart)

	for k, v := range cart {
		if v <= 0 {
			delete(cart, k)
		}
	}

	s.snap.Cart = cart
}

// replaceCart swaps in a fully rebuilt cart mapping.
func (s *Store) replaceCart(cart map[string]int) {
	if cart == nil {
		cart = map[string]int{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Cart = cart
}
