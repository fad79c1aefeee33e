package chatguard

import (
	"fmt"
	"slices"
)

// Registry holds the global privilege tiers: which users are owners,
// developers, sudoers, support, tigers and wolves.
// It is built once at startup and never mutated afterwards, so it is safe
// for concurrent reads without locking.
type Registry struct {
	sets map[Tier]map[UserID]struct{}
}

// RegistryBuilder collects grants before producing an immutable Registry.
// A builder is not safe for concurrent use.
type RegistryBuilder struct {
	sets map[Tier]map[UserID]struct{}
	err  error
}

// NewRegistryBuilder creates an empty builder.
//
// Example:
//
//	registry, err := chatguard.NewRegistryBuilder().
//	    Grant(chatguard.TierOwner, ownerID).
//	    Grant(chatguard.TierSudo, 1001, 1002).
//	    Grant(chatguard.TierWolf, 2001).
//	    Build()
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{sets: make(map[Tier]map[UserID]struct{})}
}

// Grant adds users to a global tier. Granting a contextual tier (ChatAdmin,
// Member) is recorded as an error and reported by Build.
func (b *RegistryBuilder) Grant(tier Tier, ids ...UserID) *RegistryBuilder {
	if !tier.IsGlobal() {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %s is not a global tier", ErrInvalidTier, tier)
		}
		return b
	}
	set := b.sets[tier]
	if set == nil {
		set = make(map[UserID]struct{}, len(ids))
		b.sets[tier] = set
	}
	for _, id := range ids {
		if id == NoUser {
			continue
		}
		set[id] = struct{}{}
	}
	return b
}

// Build returns a Registry holding a copy of the collected grants.
// Owners are also placed in the developer tier.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := &Registry{sets: make(map[Tier]map[UserID]struct{}, len(GlobalTiers))}
	for _, tier := range GlobalTiers {
		r.sets[tier] = make(map[UserID]struct{}, len(b.sets[tier]))
		for id := range b.sets[tier] {
			r.sets[tier][id] = struct{}{}
		}
	}
	for id := range r.sets[TierOwner] {
		r.sets[TierDev][id] = struct{}{}
	}
	return r, nil
}

// EmptyRegistry returns a Registry with no grants.
func EmptyRegistry() *Registry {
	r, _ := NewRegistryBuilder().Build()
	return r
}

// Has returns true if the user was granted exactly this tier.
func (r *Registry) Has(tier Tier, userID UserID) bool {
	if r == nil {
		return false
	}
	_, ok := r.sets[tier][userID]
	return ok
}

// TiersOf returns every global tier the user holds, most privileged first.
func (r *Registry) TiersOf(userID UserID) []Tier {
	var tiers []Tier
	for _, tier := range GlobalTiers {
		if r.Has(tier, userID) {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}

// HighestTier returns the user's most privileged global tier.
func (r *Registry) HighestTier(userID UserID) (Tier, bool) {
	for _, tier := range GlobalTiers {
		if r.Has(tier, userID) {
			return tier, true
		}
	}
	return TierMember, false
}

// IsAtLeast returns true if the user holds the tier or any tier above it.
// Every user is at least a Member. ChatAdmin depends on the chat, so the
// registry can only confirm it for holders of a global tier.
func (r *Registry) IsAtLeast(userID UserID, tier Tier) bool {
	if tier == TierMember {
		return true
	}
	highest, ok := r.HighestTier(userID)
	return ok && highest.AtLeast(tier)
}

// Members returns the users in a tier, sorted ascending.
func (r *Registry) Members(tier Tier) []UserID {
	if r == nil {
		return nil
	}
	ids := make([]UserID, 0, len(r.sets[tier]))
	for id := range r.sets[tier] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of distinct users holding any global tier.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	seen := make(map[UserID]struct{})
	for _, set := range r.sets {
		for id := range set {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
