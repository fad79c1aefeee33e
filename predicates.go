package chatguard

import "context"

// Predicates over a Request, built from a Resolver. Tier predicates need an
// actor and return ErrUnknownActor without one; bot capability predicates
// only look at the chat.

// RequireDevPlus holds for devs and owners.
func (r *Resolver) RequireDevPlus() Predicate {
	return r.requireTier("dev check", r.IsDevPlus)
}

// RequireSudoPlus holds for sudo users and above.
func (r *Resolver) RequireSudoPlus() Predicate {
	return r.requireTier("sudo check", r.IsSudoPlus)
}

// RequireStatsPlus holds for users allowed to see bot statistics.
func (r *Resolver) RequireStatsPlus() Predicate {
	return r.requireTier("stats check", r.IsStatsPlus)
}

// RequireSupportPlus holds for support users and above.
func (r *Resolver) RequireSupportPlus() Predicate {
	return r.requireTier("support check", r.IsSupportPlus)
}

// RequireWhitelistPlus holds for wolves and above.
func (r *Resolver) RequireWhitelistPlus() Predicate {
	return r.requireTier("whitelist check", r.IsWhitelistPlus)
}

// RequireUserAdmin holds when the actor may act as an administrator of the
// request's chat.
func (r *Resolver) RequireUserAdmin() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.IsUserAdmin(ctx, req.Chat, req.ActorID, req.Member)
	}
}

// RequireUserCanBan holds when the actor may ban or restrict others.
func (r *Resolver) RequireUserCanBan() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.UserCanBan(ctx, req.Chat, req.ActorID, req.Member)
	}
}

// RequireUserCanPin holds when the actor may pin messages.
func (r *Resolver) RequireUserCanPin() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.UserCanPin(ctx, req.Chat, req.ActorID, req.Member)
	}
}

// RequireUserCanPromote holds when the actor may promote members.
func (r *Resolver) RequireUserCanPromote() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.UserCanPromote(ctx, req.Chat, req.ActorID, req.Member)
	}
}

// RequireUserCanChangeInfo holds when the actor may edit the chat's info.
func (r *Resolver) RequireUserCanChangeInfo() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.UserCanChangeInfo(ctx, req.Chat, req.ActorID, req.Member)
	}
}

// RequireBotAdmin holds when the bot is an administrator of the chat.
func (r *Resolver) RequireBotAdmin() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.IsBotAdmin(ctx, req.Chat, req.BotMember)
	}
}

// RequireBotCanDelete holds when the bot may delete messages.
func (r *Resolver) RequireBotCanDelete() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.CanDelete(ctx, req.Chat, req.BotMember)
	}
}

// RequireBotCanPin holds when the bot may pin messages.
func (r *Resolver) RequireBotCanPin() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.CanPin(ctx, req.Chat, req.BotMember)
	}
}

// RequireBotCanPromote holds when the bot may promote members.
func (r *Resolver) RequireBotCanPromote() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.CanPromote(ctx, req.Chat, req.BotMember)
	}
}

// RequireBotCanRestrict holds when the bot may restrict members.
func (r *Resolver) RequireBotCanRestrict() Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		return r.CanRestrict(ctx, req.Chat, req.BotMember)
	}
}

func (r *Resolver) requireTier(op string, check func(UserID) bool) Predicate {
	return func(_ context.Context, req *Request) (bool, error) {
		if !req.HasActor() {
			return false, NewError(ErrUnknownActor, op).WithChat(req.Chat.ID)
		}
		return check(req.ActorID), nil
	}
}
