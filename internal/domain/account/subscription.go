package account

import "time"

// Tier is the membership level. Upgrades are monotonic; no automatic
// downgrade is modeled.
type Tier string

const (
	TierNone  Tier = "none"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

var tierRank = map[Tier]int{
	TierNone:  0,
	TierPro:   1,
	TierElite: 2,
}

// IsPaying reports whether the tier unlocks premium features.
func (t Tier) IsPaying() bool {
	return t == TierPro || t == TierElite
}

// ParseTier maps a raw string onto the tiers, defaulting to none.
func ParseTier(raw string) Tier {
	switch Tier(raw) {
	case TierPro:
		return TierPro
	case TierElite:
		return TierElite
	default:
		return TierNone
	}
}

// TrialState describes where an identity sits in the trial/membership
// state machine.
type TrialState string

const (
	TrialStateNone       TrialState = "no-trial"
	TrialStateActive     TrialState = "trial-active"
	TrialStateExpired    TrialState = "trial-expired"
	TrialStateSubscribed TrialState = "subscribed"
)

// ApplyTier applies a "tier changed" event from the billing boundary.
// Upgrades stick; a lower or equal tier is ignored.
func (p *Preferences) ApplyTier(t Tier) bool {
	if tierRank[t] <= tierRank[p.Tier] {
		return false
	}
	p.Tier = t
	return true
}

// StartTrial stamps the trial start timestamp once. Re-activation never
// re-stamps.
func (p *Preferences) StartTrial(now time.Time) bool {
	if p.TrialStartedAt != nil {
		return false
	}
	t := now
	p.TrialStartedAt = &t
	return true
}

// TrialState derives the current state from the trial-start timestamp
// compared against now. A subscription at any point bypasses trial
// expiry permanently.
func (p *Preferences) TrialState(now time.Time, windowDays int) TrialState {
	if p.Tier.IsPaying() {
		return TrialStateSubscribed
	}
	if p.TrialStartedAt == nil {
		return TrialStateNone
	}
	if now.Sub(*p.TrialStartedAt) >= time.Duration(windowDays)*24*time.Hour {
		return TrialStateExpired
	}
	return TrialStateActive
}

// IsTrialExpired reports whether trial-gated features are blocked.
func (p *Preferences) IsTrialExpired(now time.Time, windowDays int) bool {
	return p.TrialState(now, windowDays) == TrialStateExpired
}

// TrialDaysRemaining derives the whole days left in the trial window.
// Zero when no trial is active.
func (p *Preferences) TrialDaysRemaining(now time.Time, windowDays int) int {
	if p.TrialState(now, windowDays) != TrialStateActive {
		return 0
	}
	elapsed := now.Sub(*p.TrialStartedAt)
	remaining := time.Duration(windowDays)*24*time.Hour - elapsed
	return int(remaining / (24 * time.Hour))
}
