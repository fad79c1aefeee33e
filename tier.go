package chatguard

import (
	"fmt"
	"strings"
)

// Tier is a privilege level. Lower values are more privileged, so a < b means
// a outranks b.
type Tier int

const (
	TierOwner Tier = iota
	TierDev
	TierSudo    // "dragons"
	TierSupport // "demons"
	TierTiger
	TierWolf
	TierChatAdmin
	TierMember
)

// GlobalTiers lists the tiers held through the Registry, most privileged first.
var GlobalTiers = []Tier{TierOwner, TierDev, TierSudo, TierSupport, TierTiger, TierWolf}

var tierNames = map[Tier]string{
	TierOwner:     "owner",
	TierDev:       "dev",
	TierSudo:      "sudo",
	TierSupport:   "support",
	TierTiger:     "tiger",
	TierWolf:      "wolf",
	TierChatAdmin: "chat_admin",
	TierMember:    "member",
}

var tierAliases = map[string]Tier{
	"dragon": TierSudo,
	"demon":  TierSupport,
}

// String returns the tier's name.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Outranks returns true if t is strictly more privileged than other.
func (t Tier) Outranks(other Tier) bool {
	return t < other
}

// AtLeast returns true if t is other or more privileged.
func (t Tier) AtLeast(other Tier) bool {
	return t <= other
}

// IsGlobal returns true for tiers held through the Registry.
func (t Tier) IsGlobal() bool {
	return t >= TierOwner && t <= TierWolf
}

// Valid returns true for the known tiers.
func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// ParseTier resolves a tier name, accepting the "dragon" and "demon" aliases.
func ParseTier(name string) (Tier, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range tierNames {
		if n == name {
			return t, nil
		}
	}
	if t, ok := tierAliases[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTier, name)
}
