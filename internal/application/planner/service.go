// Package planner implements the canonical state store for the active
// identity: every mutable collection and every state-transition
// operation the UI can invoke. All mutations flow through one mutex
// (single-writer discipline) and write through to the collection store;
// the in-memory state is authoritative for the session.
package planner

import (
	"context"
	"sync"
	"time"

	"github.com/pantrysage/v1/internal/application/session"
	"github.com/pantrysage/v1/internal/domain/account"
	"github.com/pantrysage/v1/internal/domain/pantry"
	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/domain/shopping"
	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/ports/inbound"
	"github.com/pantrysage/v1/internal/ports/outbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements inbound.PlannerService.
type Service struct {
	sessions *session.Manager
	ai       outbound.AIService
	billing  config.BillingConfig
	logger   *zap.Logger

	// now is the clock, swappable in tests.
	now func() time.Time

	mu           sync.Mutex
	identity     account.Identity
	pantries     []pantry.Pantry
	activePantry uuid.UUID
	cart         shopping.Cart
	orders       []shopping.Order
	generated    []recipe.Recipe
	saved        recipe.Favorites
	history      []recipe.MealLog
	prefs        account.Preferences

	generating bool
	genCancel  context.CancelFunc
	// genSeq tags each batch so a stale goroutine's teardown cannot
	// clobber the state of a batch started after it was cancelled.
	genSeq uint64
}

// NewService creates the planner service and loads the collections for
// the identity recorded by the session marker (guest when absent).
func NewService(
	sessions *session.Manager,
	ai outbound.AIService,
	billing config.BillingConfig,
	logger *zap.Logger,
) *Service {
	s := &Service{
		sessions: sessions,
		ai:       ai,
		billing:  billing,
		logger:   logger.Named("planner"),
		now:      time.Now,
	}

	ctx := context.Background()
	s.switchIdentity(ctx, sessions.Resolve(ctx))
	return s
}

// switchIdentity swaps every collection to the given identity. Callers
// must not hold the mutex; the swap is atomic with respect to all other
// operations.
func (s *Service) switchIdentity(ctx context.Context, identity account.Identity) {
	c := s.sessions.LoadAll(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A batch started under the old identity must not bleed recipes
	// into the new one.
	s.cancelGenerationLocked()

	s.identity = identity
	s.pantries = c.Pantries
	s.activePantry = c.Pantries[0].ID
	s.cart = shopping.Cart{Items: c.Shopping.Items}
	s.orders = c.Shopping.Orders
	s.saved = c.Saved
	s.history = c.History
	s.prefs = c.Prefs
	s.generated = nil
}

// SignIn switches the store to the signed-in identity, reloading or
// seeding all five collections together.
func (s *Service) SignIn(ctx context.Context, name, email string) (inbound.SessionDTO, error) {
	identity, err := s.sessions.SignIn(ctx, email)
	if err != nil {
		return inbound.SessionDTO{}, errors.NewBadRequestError(err.Error())
	}

	s.switchIdentity(ctx, identity)

	s.mu.Lock()
	if name != "" && s.prefs.DisplayName == "" {
		s.prefs.DisplayName = name
		s.persistPrefs(ctx)
	}
	dto := s.sessionLocked()
	s.mu.Unlock()

	s.logger.Info("Session switched", zap.String("identity_key", identity.Key()))
	return dto, nil
}

// SignOut clears the session marker and switches to the guest identity's
// own independent collections.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.sessions.SignOut(ctx); err != nil {
		return errors.NewStorageError("clear session marker", err)
	}
	s.switchIdentity(ctx, account.GuestIdentity)
	return nil
}

// Session describes the active identity.
func (s *Service) Session() inbound.SessionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionLocked()
}

func (s *Service) sessionLocked() inbound.SessionDTO {
	return inbound.SessionDTO{
		Identity:    s.identity,
		DisplayName: s.prefs.DisplayName,
		Guest:       s.identity.IsGuest(),
	}
}

// Persistence write-through helpers. All callers hold the mutex.

func (s *Service) persistPantries(ctx context.Context) {
	s.sessions.Save(ctx, s.identity, outbound.CollectionPantries, s.pantries)
}

func (s *Service) persistShopping(ctx context.Context) {
	s.sessions.Save(ctx, s.identity, outbound.CollectionShopping, session.ShoppingState{
		Items:  s.cart.Items,
		Orders: s.orders,
	})
}

func (s *Service) persistSaved(ctx context.Context) {
	s.sessions.Save(ctx, s.identity, outbound.CollectionRecipes, s.saved)
}

func (s *Service) persistHistory(ctx context.Context) {
	s.sessions.Save(ctx, s.identity, outbound.CollectionHistory, s.history)
}

func (s *Service) persistPrefs(ctx context.Context) {
	s.sessions.Save(ctx, s.identity, outbound.CollectionPrefs, s.prefs)
}

// activePantryLocked returns a pointer into the pantry slice for the
// active pantry. Callers hold the mutex.
func (s *Service) activePantryLocked() *pantry.Pantry {
	for i := range s.pantries {
		if s.pantries[i].ID == s.activePantry {
			return &s.pantries[i]
		}
	}
	// The active pantry is always valid; fall back defensively to the
	// first pantry, which is guaranteed to exist.
	return &s.pantries[0]
}

func (s *Service) pantryByIDLocked(id uuid.UUID) (*pantry.Pantry, error) {
	for i := range s.pantries {
		if s.pantries[i].ID == id {
			return &s.pantries[i], nil
		}
	}
	return nil, errors.NewPantryNotFoundError(id.String())
}
