package planner

import (
	"context"

	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/domain/shopping"
	"github.com/pantrysage/v1/internal/ports/outbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cart returns a snapshot of the shopping cart.
func (s *Service) Cart() shopping.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]shopping.Item, len(s.cart.Items))
	copy(items, s.cart.Items)
	return shopping.Cart{Items: items}
}

// AddCartItem adds one item to the cart, merging with an existing item
// of the same name.
func (s *Service) AddCartItem(ctx context.Context, name, quantity, source string) (shopping.Item, error) {
	item, err := shopping.NewItem(name, quantity, source, s.now())
	if err != nil {
		return shopping.Item{}, errors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.cart.Add(item)
	s.persistShopping(ctx)
	return merged, nil
}

// RemoveCartItem deletes an item from the cart.
func (s *Service) RemoveCartItem(ctx context.Context, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.Remove(itemID); err != nil {
		return errors.NewNotFoundError("cart item")
	}
	s.persistShopping(ctx)
	return nil
}

// ToggleCartItem flips an item's checked state.
func (s *Service) ToggleCartItem(ctx context.Context, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.Toggle(itemID); err != nil {
		return errors.NewNotFoundError("cart item")
	}
	s.persistShopping(ctx)
	return nil
}

// ExportMissingIngredients pushes a recipe's missing-ingredient list
// into the cart so the gap between "want to cook" and "can cook" becomes
// a shopping trip.
func (s *Service) ExportMissingIngredients(ctx context.Context, r recipe.Recipe) ([]shopping.Item, error) {
	if len(r.MissingItems) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]shopping.Item, 0, len(r.MissingItems))
	for _, name := range r.MissingItems {
		item, err := shopping.NewItem(name, "", "recipe", s.now())
		if err != nil {
			continue
		}
		added = append(added, s.cart.Add(item))
	}
	if len(added) > 0 {
		s.persistShopping(ctx)
	}
	return added, nil
}

// PlanShopping turns one free-text request into multiple meal concepts
// with their missing-ingredient lists. Counts against the same credit
// quota as recipe generation.
func (s *Service) PlanShopping(ctx context.Context, query string) ([]outbound.ShoppingPlan, error) {
	s.mu.Lock()
	if err := s.consumeGenerationCreditLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	req := outbound.ShoppingPlanRequest{
		PantryItems: s.pantryItemNamesLocked(),
		Query:       query,
		Preferences: s.prefs,
	}
	s.mu.Unlock()

	plans, err := s.ai.PlanShopping(ctx, req)
	if err != nil {
		return nil, errors.NewGenerationError("shopping plan", err)
	}
	return plans, nil
}

// CommitShoppingPlan moves one plan concept's items into the cart.
func (s *Service) CommitShoppingPlan(ctx context.Context, plan outbound.ShoppingPlan) ([]shopping.Item, error) {
	if len(plan.Items) == 0 {
		return nil, errors.NewValidationError("shopping plan has no items")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]shopping.Item, 0, len(plan.Items))
	for _, pi := range plan.Items {
		item, err := shopping.NewItem(pi.Name, pi.Quantity, plan.Concept, s.now())
		if err != nil {
			s.logger.Warn("Skipping unusable plan item",
				zap.String("name", pi.Name), zap.Error(err))
			continue
		}
		added = append(added, s.cart.Add(item))
	}
	if len(added) > 0 {
		s.persistShopping(ctx)
	}
	return added, nil
}

// PlaceOrder converts the cart into a pending order, stocks the pantry
// with the ordered items, and empties the cart. The three effects commit
// together; an empty cart fails without touching anything.
func (s *Service) PlaceOrder(ctx context.Context) (*shopping.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := shopping.NewOrder(s.cart.Items, s.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	p := s.activePantryLocked()
	for _, item := range order.Items {
		if _, err := p.AddIngredient(item.Name, item.Quantity, s.now()); err != nil {
			s.logger.Warn("Ordered item not stocked",
				zap.String("name", item.Name), zap.Error(err))
		}
	}

	s.orders = append([]shopping.Order{*order}, s.orders...)
	s.cart.Clear()
	s.persistShopping(ctx)
	s.persistPantries(ctx)

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total))
	return order, nil
}

// Orders returns the order history, newest first.
func (s *Service) Orders() []shopping.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]shopping.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// AdvanceOrder moves an order one step along its fulfillment
// progression.
func (s *Service) AdvanceOrder(ctx context.Context, orderID uuid.UUID) (*shopping.Order, error) {
	return s.mutateOrder(ctx, orderID, func(o *shopping.Order) error { return o.Advance() })
}

// CancelOrder cancels a non-terminal order.
func (s *Service) CancelOrder(ctx context.Context, orderID uuid.UUID) (*shopping.Order, error) {
	return s.mutateOrder(ctx, orderID, func(o *shopping.Order) error { return o.Cancel() })
}

func (s *Service) mutateOrder(ctx context.Context, orderID uuid.UUID, fn func(*shopping.Order) error) (*shopping.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		if err := fn(&s.orders[i]); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		s.persistShopping(ctx)
		updated := s.orders[i]
		return &updated, nil
	}
	return nil, errors.NewOrderNotFoundError(orderID.String())
}
