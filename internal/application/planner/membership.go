package planner

import (
	"context"

	"github.com/pantrysage/v1/internal/domain/account"
	"github.com/pantrysage/v1/internal/ports/inbound"
	"github.com/pantrysage/v1/pkg/errors"

	"go.uber.org/zap"
)

// Preferences returns the active identity's preferences.
func (s *Service) Preferences() account.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// UpdatePreferences replaces the editable preference fields. Membership
// state (tier, trial stamp, credit counter) is owned by the service and
// carried over unchanged.
func (s *Service) UpdatePreferences(ctx context.Context, prefs account.Preferences) (account.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs.Tier = s.prefs.Tier
	prefs.TrialStartedAt = s.prefs.TrialStartedAt
	prefs.GenerationsUsed = s.prefs.GenerationsUsed
	s.prefs = prefs
	s.persistPrefs(ctx)
	return s.prefs, nil
}

// StartTrial stamps the trial start. Starting twice is a no-op; the
// original window stands.
func (s *Service) StartTrial(ctx context.Context) (inbound.MembershipDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.StartTrial(s.now()) {
		s.persistPrefs(ctx)
		s.logger.Info("Trial started", zap.String("identity_key", s.identity.Key()))
	}
	return s.membershipLocked(), nil
}

// ApplySubscription records a paid tier. Tier changes are monotonic
// upgrades; applying a lower or equal tier leaves state untouched.
func (s *Service) ApplySubscription(ctx context.Context, tier string) (inbound.MembershipDTO, error) {
	t := account.ParseTier(tier)
	if !t.IsPaying() {
		return inbound.MembershipDTO{}, errors.NewValidationError("unknown subscription tier: " + tier)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.ApplyTier(t) {
		s.persistPrefs(ctx)
		s.logger.Info("Subscription applied",
			zap.String("identity_key", s.identity.Key()),
			zap.String("tier", string(t)))
	}
	return s.membershipLocked(), nil
}

// Membership summarizes the trial/subscription state machine.
func (s *Service) Membership() inbound.MembershipDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membershipLocked()
}

func (s *Service) membershipLocked() inbound.MembershipDTO {
	remaining := s.billing.FreeCredits - s.prefs.GenerationsUsed
	if remaining < 0 {
		remaining = 0
	}
	return inbound.MembershipDTO{
		Tier:               s.prefs.Tier,
		TrialState:         s.prefs.TrialState(s.now(), s.billing.TrialDays),
		TrialDaysRemaining: s.prefs.TrialDaysRemaining(s.now(), s.billing.TrialDays),
		CreditsUsed:        s.prefs.GenerationsUsed,
		CreditsRemaining:   remaining,
	}
}

// consumeGenerationCreditLocked admits one paid generation. Paying
// subscribers and active trials pass freely; an expired trial is
// refused outright; everyone else draws down the free credit quota.
// Callers hold the mutex.
func (s *Service) consumeGenerationCreditLocked(ctx context.Context) error {
	now := s.now()
	switch s.prefs.TrialState(now, s.billing.TrialDays) {
	case account.TrialStateSubscribed, account.TrialStateActive:
		return nil
	case account.TrialStateExpired:
		return errors.NewTrialExpiredError()
	}

	if s.prefs.GenerationsUsed >= s.billing.FreeCredits {
		return errors.NewQuotaExceededError("free generations", s.billing.FreeCredits)
	}
	s.prefs.GenerationsUsed++
	s.persistPrefs(ctx)
	return nil
}
