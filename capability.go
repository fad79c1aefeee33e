package chatguard

import "context"

// Bot capability checks. Each takes the bot's own member record when the
// caller already has it; otherwise the record is fetched fresh, since the
// bot's rights matter more than the cost of a lookup.

// IsBotAdmin returns true if the bot is an administrator of chat. Private
// chats and chats where everyone is an administrator always qualify.
func (r *Resolver) IsBotAdmin(ctx context.Context, chat Chat, botMember *Member) (bool, error) {
	if chat.IsPrivate() || chat.AllMembersAreAdministrators {
		return true, nil
	}
	m, err := r.botMember(ctx, chat, botMember)
	if err != nil {
		return false, err
	}
	return m.IsAdmin(), nil
}

// CanDelete returns true if the bot may delete messages in chat.
func (r *Resolver) CanDelete(ctx context.Context, chat Chat, botMember *Member) (bool, error) {
	return r.botRight(ctx, chat, botMember, func(m Member) bool { return m.CanDeleteMessages })
}

// CanPin returns true if the bot may pin messages in chat.
func (r *Resolver) CanPin(ctx context.Context, chat Chat, botMember *Member) (bool, error) {
	return r.botRight(ctx, chat, botMember, func(m Member) bool { return m.CanPinMessages })
}

// CanPromote returns true if the bot may promote members in chat.
func (r *Resolver) CanPromote(ctx context.Context, chat Chat, botMember *Member) (bool, error) {
	return r.botRight(ctx, chat, botMember, func(m Member) bool { return m.CanPromoteMembers })
}

// CanRestrict returns true if the bot may restrict members in chat.
func (r *Resolver) CanRestrict(ctx context.Context, chat Chat, botMember *Member) (bool, error) {
	return r.botRight(ctx, chat, botMember, func(m Member) bool { return m.CanRestrictMembers })
}

func (r *Resolver) botRight(ctx context.Context, chat Chat, botMember *Member, right func(Member) bool) (bool, error) {
	m, err := r.botMember(ctx, chat, botMember)
	if err != nil {
		return false, err
	}
	return right(m), nil
}

func (r *Resolver) botMember(ctx context.Context, chat Chat, supplied *Member) (Member, error) {
	if supplied == nil && r.botID == NoUser {
		return Member{}, NewError(ErrMembershipLookup, "bot id not configured").WithChat(chat.ID)
	}
	return r.lookupMember(ctx, chat, r.botID, supplied)
}
