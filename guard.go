package chatguard

import (
	"context"
	"log/slog"
)

// Guard builds the bot's standard command guards on top of a Resolver.
// Each preset returns a decorator for a Handler.
type Guard struct {
	resolver       *Resolver
	deleteCommands bool
	messages       Messages
	logger         *slog.Logger
}

// GuardOption configures the Guard.
type GuardOption func(*Guard)

// NewGuard creates a new Guard instance.
//
// Example:
//
//	guard := chatguard.NewGuard(resolver,
//	    chatguard.WithDeleteCommands(cfg.DeleteCommands),
//	    chatguard.WithGuardLogger(logger),
//	)
//	handler := guard.UserAdmin(warnUser)
func NewGuard(resolver *Resolver, opts ...GuardOption) *Guard {
	g := &Guard{
		resolver: resolver,
		messages: DefaultMessages(),
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// WithDeleteCommands makes denied bare commands get deleted instead of
// answered.
func WithDeleteCommands(enabled bool) GuardOption {
	return func(g *Guard) {
		g.deleteCommands = enabled
	}
}

// WithMessages replaces the denial copy.
func WithMessages(messages Messages) GuardOption {
	return func(g *Guard) {
		g.messages = messages
	}
}

// WithGuardLogger sets the logger for guard decisions.
func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Resolver returns the guard's resolver.
func (g *Guard) Resolver() *Resolver {
	return g.resolver
}

// Require returns a decorator that runs the handler when p holds and applies
// policy otherwise. It is the building block of the presets.
func (g *Guard) Require(name string, p Predicate, policy Policy) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) error {
			ctx = WithLogger(ctx, g.logger)
			err := Check(ctx, p, policy, req)
			switch {
			case err == nil:
				return next(WithRequest(ctx, req), req)
			case IsUnknownActor(err):
				g.logger.Debug("guard skipped request without actor",
					slog.String("guard", name),
					slog.Int64("chat_id", int64(req.Chat.ID)))
			case IsDenied(err):
				g.logger.Debug("guard denied request",
					slog.String("guard", name),
					slog.String("policy", policy.Name()),
					slog.Int64("chat_id", int64(req.Chat.ID)),
					slog.Int64("user_id", int64(req.ActorID)),
					slog.Any("error", err))
			default:
				g.logger.Error("guard could not decide",
					slog.String("guard", name),
					slog.Int64("chat_id", int64(req.Chat.ID)),
					slog.Int64("user_id", int64(req.ActorID)),
					slog.Any("error", err))
			}
			return err
		}
	}
}

// DevPlus allows devs and owners.
func (g *Guard) DevPlus(next Handler) Handler {
	return g.Require("dev_plus", g.resolver.RequireDevPlus(),
		DeleteOrReply(g.deleteCommands, g.messages.DevOnly).IgnoreUnknownActor())(next)
}

// SudoPlus allows sudo users and above.
func (g *Guard) SudoPlus(next Handler) Handler {
	return g.Require("sudo_plus", g.resolver.RequireSudoPlus(),
		DeleteOrReply(g.deleteCommands, g.messages.SudoOnly).IgnoreUnknownActor())(next)
}

// StatsPlus allows users who may see bot statistics.
func (g *Guard) StatsPlus(next Handler) Handler {
	return g.Require("stats_plus", g.resolver.RequireStatsPlus(),
		DeleteOrReply(g.deleteCommands, g.messages.DevOnly).IgnoreUnknownActor())(next)
}

// SupportPlus allows support users and above. Denied bare commands are
// deleted, even when the sender is unknown; nothing is replied.
func (g *Guard) SupportPlus(next Handler) Handler {
	return g.Require("support_plus", g.resolver.RequireSupportPlus(),
		DeleteBareCommand(g.deleteCommands))(next)
}

// WhitelistPlus allows wolves and above. Denials always get a reply.
func (g *Guard) WhitelistPlus(next Handler) Handler {
	return g.Require("whitelist_plus", g.resolver.RequireWhitelistPlus(),
		Reply(g.messages.NotWhitelisted))(next)
}

// UserAdmin allows chat administrators.
func (g *Guard) UserAdmin(next Handler) Handler {
	return g.Require("user_admin", g.resolver.RequireUserAdmin(),
		DeleteOrReply(g.deleteCommands, g.messages.AdminOnly).IgnoreUnknownActor())(next)
}

// UserAdminNoReply allows chat administrators and never replies on denial.
func (g *Guard) UserAdminNoReply(next Handler) Handler {
	return g.Require("user_admin_no_reply", g.resolver.RequireUserAdmin(),
		DeleteBareCommand(g.deleteCommands).IgnoreUnknownActor())(next)
}

// UserNotAdmin allows everyone except chat administrators, silently.
func (g *Guard) UserNotAdmin(next Handler) Handler {
	return g.Require("user_not_admin", Not(g.resolver.RequireUserAdmin()),
		Silent().IgnoreUnknownActor())(next)
}

// BotAdmin requires the bot to be an administrator of the chat.
func (g *Guard) BotAdmin(next Handler) Handler {
	return g.Require("bot_admin", g.resolver.RequireBotAdmin(),
		ReplyFunc(g.messages.BotNotAdmin.Text))(next)
}

// BotCanDelete requires the bot to be able to delete messages.
func (g *Guard) BotCanDelete(next Handler) Handler {
	return g.Require("bot_can_delete", g.resolver.RequireBotCanDelete(),
		ReplyFunc(g.messages.BotCannotDelete.Text))(next)
}

// BotCanPin requires the bot to be able to pin messages.
func (g *Guard) BotCanPin(next Handler) Handler {
	return g.Require("bot_can_pin", g.resolver.RequireBotCanPin(),
		ReplyFunc(g.messages.BotCannotPin.Text))(next)
}

// BotCanPromote requires the bot to be able to promote members.
func (g *Guard) BotCanPromote(next Handler) Handler {
	return g.Require("bot_can_promote", g.resolver.RequireBotCanPromote(),
		ReplyFunc(g.messages.BotCannotPromote.Text))(next)
}

// BotCanRestrict requires the bot to be able to restrict members.
func (g *Guard) BotCanRestrict(next Handler) Handler {
	return g.Require("bot_can_restrict", g.resolver.RequireBotCanRestrict(),
		ReplyFunc(g.messages.BotCannotRestrict.Text))(next)
}

// UserCanBan requires the sender to be able to ban or restrict others.
func (g *Guard) UserCanBan(next Handler) Handler {
	return g.Require("user_can_ban", g.resolver.RequireUserCanBan(),
		Reply(g.messages.CannotBan).IgnoreUnknownActor())(next)
}

// Chain composes guards; the first one is checked first.
//
// Example:
//
//	pin := chatguard.Chain(guard.BotCanPin, guard.UserAdmin)(pinMessage)
func Chain(guards ...func(Handler) Handler) func(Handler) Handler {
	return func(next Handler) Handler {
		for i := len(guards) - 1; i >= 0; i-- {
			next = guards[i](next)
		}
		return next
	}
}
