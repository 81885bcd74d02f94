// Package session resolves the active identity and loads or seeds every
// persisted collection when identity changes. Switching identity is
// atomic from the caller's perspective: the five collections always
// reload (or seed) together, so partial state between identities is
// never observable.
package session

import (
	"context"

	"github.com/pantrysage/v1/internal/domain/account"
	"github.com/pantrysage/v1/internal/domain/pantry"
	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/domain/shopping"
	"github.com/pantrysage/v1/internal/ports/outbound"

	"go.uber.org/zap"
)

// ShoppingState is the persisted shape of the "shopping" collection:
// current cart items plus the order history built from them.
type ShoppingState struct {
	Items  []shopping.Item  `json:"items"`
	Orders []shopping.Order `json:"orders"`
}

// Collections holds one identity's complete persisted state.
type Collections struct {
	Pantries []pantry.Pantry
	Shopping ShoppingState
	Saved    recipe.Favorites
	History  []recipe.MealLog
	Prefs    account.Preferences
}

// Manager owns identity resolution and the load/seed/save cycle against
// the collection store.
type Manager struct {
	store  outbound.CollectionStore
	logger *zap.Logger
}

// NewManager creates a new session manager
func NewManager(store outbound.CollectionStore, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.Named("session"),
	}
}

// Resolve returns the identity recorded by the session marker, falling
// back to guest when no one is signed in.
func (m *Manager) Resolve(ctx context.Context) account.Identity {
	if email, ok := m.store.LoadSessionMarker(ctx); ok {
		return account.NewIdentity(email)
	}
	return account.GuestIdentity
}

// SignIn persists the normalized email as the session marker and returns
// the new active identity.
func (m *Manager) SignIn(ctx context.Context, email string) (account.Identity, error) {
	identity := account.NewIdentity(email)
	if identity.IsGuest() {
		return account.GuestIdentity, ErrInvalidEmail
	}

	if err := m.store.SaveSessionMarker(ctx, string(identity)); err != nil {
		return account.GuestIdentity, err
	}

	m.logger.Info("Identity signed in", zap.String("identity_key", identity.Key()))
	return identity, nil
}

// SignOut clears the session marker. Subsequent resolution yields guest.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.store.ClearSessionMarker(ctx); err != nil {
		return err
	}
	m.logger.Info("Identity signed out")
	return nil
}

// LoadAll loads every collection for the identity, seeding defaults for
// anything absent. A fresh identity gets the seeded default pantry and
// default preferences.
func (m *Manager) LoadAll(ctx context.Context, identity account.Identity) *Collections {
	key := identity.Key()
	c := &Collections{}

	if !m.store.Load(ctx, key, outbound.CollectionPantries, &c.Pantries) || len(c.Pantries) == 0 {
		c.Pantries = []pantry.Pantry{*pantry.NewDefaultPantry()}
	}
	m.store.Load(ctx, key, outbound.CollectionShopping, &c.Shopping)
	m.store.Load(ctx, key, outbound.CollectionRecipes, &c.Saved)
	m.store.Load(ctx, key, outbound.CollectionHistory, &c.History)
	if !m.store.Load(ctx, key, outbound.CollectionPrefs, &c.Prefs) {
		c.Prefs = account.DefaultPreferences()
	}

	m.logger.Debug("Collections loaded",
		zap.String("identity_key", key),
		zap.Int("pantries", len(c.Pantries)),
		zap.Int("cart_items", len(c.Shopping.Items)),
	)

	return c
}

// Save writes one collection through to the store. Persistence is a
// derived mirror of in-memory state: failures are logged as warnings and
// never propagate, the session continues on memory alone.
func (m *Manager) Save(ctx context.Context, identity account.Identity, collection outbound.Collection, value interface{}) {
	if err := m.store.Save(ctx, identity.Key(), collection, value); err != nil {
		m.logger.Warn("Failed to persist collection; in-memory state remains authoritative",
			zap.String("identity_key", identity.Key()),
			zap.String("collection", string(collection)),
			zap.Error(err),
		)
	}
}
