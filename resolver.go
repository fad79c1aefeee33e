package chatguard

import "context"

// Resolver answers privilege questions about users and about the bot itself.
// It combines the global Registry, the chat administrator RosterCache and a
// MembershipSource for single-member lookups. A Resolver holds no mutable
// state of its own and is safe for concurrent use.
type Resolver struct {
	registry         *Registry
	cache            *RosterCache
	members          MembershipSource
	botID            UserID
	anonymousAdminID UserID
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMembershipSource sets the source used for single-member lookups.
func WithMembershipSource(source MembershipSource) ResolverOption {
	return func(r *Resolver) {
		r.members = source
	}
}

// WithBotID sets the bot's own user id, used by the capability checks.
func WithBotID(id UserID) ResolverOption {
	return func(r *Resolver) {
		r.botID = id
	}
}

// WithAnonymousAdminID overrides the account treated as an anonymous admin.
func WithAnonymousAdminID(id UserID) ResolverOption {
	return func(r *Resolver) {
		r.anonymousAdminID = id
	}
}

// NewResolver creates a Resolver. A nil registry behaves as an empty one.
//
// Example:
//
//	resolver := chatguard.NewResolver(registry, cache,
//	    chatguard.WithMembershipSource(source),
//	    chatguard.WithBotID(botID),
//	)
func NewResolver(registry *Registry, cache *RosterCache, opts ...ResolverOption) *Resolver {
	if registry == nil {
		registry = EmptyRegistry()
	}
	r := &Resolver{
		registry:         registry,
		cache:            cache,
		anonymousAdminID: DefaultAnonymousAdminID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the privilege registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Cache returns the roster cache.
func (r *Resolver) Cache() *RosterCache {
	return r.cache
}

// BotID returns the bot's own user id.
func (r *Resolver) BotID() UserID {
	return r.botID
}

// IsWhitelistPlus returns true for wolves, tigers, support, sudo and devs.
func (r *Resolver) IsWhitelistPlus(userID UserID) bool {
	return r.registry.IsAtLeast(userID, TierWolf)
}

// IsSupportPlus returns true for support, sudo and devs.
func (r *Resolver) IsSupportPlus(userID UserID) bool {
	return r.registry.IsAtLeast(userID, TierSupport)
}

// IsSudoPlus returns true for sudo and devs.
func (r *Resolver) IsSudoPlus(userID UserID) bool {
	return r.registry.IsAtLeast(userID, TierSudo)
}

// IsStatsPlus returns true for devs (owners included).
func (r *Resolver) IsStatsPlus(userID UserID) bool {
	return r.registry.IsAtLeast(userID, TierDev)
}

// IsDevPlus returns true for devs (owners included).
func (r *Resolver) IsDevPlus(userID UserID) bool {
	return r.registry.IsAtLeast(userID, TierDev)
}

// IsUserAdmin returns true if the user may act as an administrator of chat.
//
// Private chats, sudo users, chats where everyone is an administrator and
// the anonymous admin account always qualify. Otherwise a supplied member
// record decides; without one the chat's cached roster is consulted. A
// roster fetch failure is returned as an error, never as false. NoUser is
// only rejected once the bypasses fail to apply.
func (r *Resolver) IsUserAdmin(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	if r.adminBypass(chat, userID) {
		return true, nil
	}
	if userID == NoUser {
		return false, NewError(ErrUnknownActor, "admin check").WithChat(chat.ID)
	}
	return r.chatAdmin(ctx, chat, userID, member)
}

// IsUserBanProtected returns true if the user may not be banned or
// restricted in chat: admins by IsUserAdmin rules plus wolves and tigers.
func (r *Resolver) IsUserBanProtected(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	if r.adminBypass(chat, userID) {
		return true, nil
	}
	if userID == NoUser {
		return false, NewError(ErrUnknownActor, "ban protection check").WithChat(chat.ID)
	}
	if r.registry.Has(TierTiger, userID) || r.registry.Has(TierWolf, userID) {
		return true, nil
	}
	return r.chatAdmin(ctx, chat, userID, member)
}

// IsUserInChat returns true if the user is currently a member of chat.
// The lookup always goes to the membership source.
func (r *Resolver) IsUserInChat(ctx context.Context, chat Chat, userID UserID) (bool, error) {
	m, err := r.lookupMember(ctx, chat, userID, nil)
	if err != nil {
		return false, err
	}
	return m.Status.IsPresent(), nil
}

// EffectiveTier returns the user's most privileged tier in chat: a global
// tier if one is held, else ChatAdmin or Member.
func (r *Resolver) EffectiveTier(ctx context.Context, chat Chat, userID UserID, member *Member) (Tier, error) {
	if tier, ok := r.registry.HighestTier(userID); ok {
		return tier, nil
	}
	admin, err := r.IsUserAdmin(ctx, chat, userID, member)
	if err != nil {
		return TierMember, err
	}
	if admin {
		return TierChatAdmin, nil
	}
	return TierMember, nil
}

// UserCanPromote returns true if the user may promote members in chat.
func (r *Resolver) UserCanPromote(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	return r.userRight(ctx, chat, userID, member, func(m Member) bool { return m.CanPromoteMembers })
}

// UserCanPin returns true if the user may pin messages in chat.
func (r *Resolver) UserCanPin(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	return r.userRight(ctx, chat, userID, member, func(m Member) bool { return m.CanPinMessages })
}

// UserCanChangeInfo returns true if the user may edit the chat's info.
func (r *Resolver) UserCanChangeInfo(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	return r.userRight(ctx, chat, userID, member, func(m Member) bool { return m.CanChangeInfo })
}

// UserCanManageVideoChats returns true if the user may manage video chats.
func (r *Resolver) UserCanManageVideoChats(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	return r.userRight(ctx, chat, userID, member, func(m Member) bool { return m.CanManageVideoChats })
}

// UserCanBan returns true if the user may ban or restrict others in chat:
// the creator, admins with the restrict right, sudo users and the
// anonymous admin account.
func (r *Resolver) UserCanBan(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	if userID == NoUser {
		return false, NewError(ErrUnknownActor, "ban right check").WithChat(chat.ID)
	}
	if r.IsSudoPlus(userID) || userID == r.anonymousAdminID {
		return true, nil
	}
	return r.userRight(ctx, chat, userID, member, func(m Member) bool { return m.CanRestrictMembers })
}

func (r *Resolver) adminBypass(chat Chat, userID UserID) bool {
	return chat.IsPrivate() ||
		r.IsSudoPlus(userID) ||
		chat.AllMembersAreAdministrators ||
		userID == r.anonymousAdminID
}

func (r *Resolver) chatAdmin(ctx context.Context, chat Chat, userID UserID, member *Member) (bool, error) {
	if member != nil {
		return member.IsAdmin(), nil
	}
	if r.cache == nil {
		m, err := r.lookupMember(ctx, chat, userID, nil)
		if err != nil {
			return false, err
		}
		return m.IsAdmin(), nil
	}
	return r.cache.Contains(ctx, chat.ID, userID)
}

// userRight checks a per-member capability. The creator holds every right.
func (r *Resolver) userRight(ctx context.Context, chat Chat, userID UserID, member *Member, right func(Member) bool) (bool, error) {
	if userID == NoUser {
		return false, NewError(ErrUnknownActor, "member right check").WithChat(chat.ID)
	}
	m, err := r.lookupMember(ctx, chat, userID, member)
	if err != nil {
		return false, err
	}
	return m.Status == StatusCreator || right(m), nil
}

func (r *Resolver) lookupMember(ctx context.Context, chat Chat, userID UserID, supplied *Member) (Member, error) {
	if supplied != nil {
		return *supplied, nil
	}
	if r.members == nil {
		return Member{}, NewError(ErrMembershipLookup, "no membership source configured").
			WithChat(chat.ID).
			WithUser(userID)
	}
	m, err := r.members.GetMember(ctx, chat.ID, userID)
	if err != nil {
		return Member{}, NewError(ErrMembershipLookup, "get chat member").
			WithChat(chat.ID).
			WithUser(userID).
			WithCause(err)
	}
	return m, nil
}
