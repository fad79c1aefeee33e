package telegram

import (
	"context"
	"log/slog"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"

	"github.com/fernandezvara/chatguard"
)

type contextKey string

const contextKeyUpdate contextKey = "telegram:update"

type update struct {
	bot *gotgbot.Bot
	ctx *ext.Context
}

// BotFromContext returns the bot handling the current update, or nil.
func BotFromContext(ctx context.Context) *gotgbot.Bot {
	if u, ok := ctx.Value(contextKeyUpdate).(update); ok {
		return u.bot
	}
	return nil
}

// UpdateFromContext returns the update being handled, or nil.
func UpdateFromContext(ctx context.Context) *ext.Context {
	if u, ok := ctx.Value(contextKeyUpdate).(update); ok {
		return u.ctx
	}
	return nil
}

// NewRequest builds a guard request from the update in ectx.
func NewRequest(b *gotgbot.Bot, ectx *ext.Context) *chatguard.Request {
	req := &chatguard.Request{}
	if ectx.EffectiveChat != nil {
		req.Chat = ChatFromGotgbot(ectx.EffectiveChat)
	}
	if ectx.EffectiveUser != nil {
		req.ActorID = chatguard.UserID(ectx.EffectiveUser.Id)
	}
	if msg := ectx.EffectiveMessage; msg != nil {
		req.Text = msg.Text
		req.Responder = NewResponder(b, msg)
	}
	return req
}

// Guard is any chatguard decorator, such as the presets of chatguard.Guard.
type Guard func(chatguard.Handler) chatguard.Handler

// Wrap runs next behind guard. Denials and updates without a sender end
// the handler without error, so the dispatcher carries on; other failures
// are returned.
//
// Example:
//
//	dispatcher.AddHandler(handlers.NewCommand("ban", telegram.Wrap(guard.UserCanBan, ban)))
func Wrap(guard Guard, next handlers.Response) handlers.Response {
	return WrapRequest(guard, func(*gotgbot.Bot, *ext.Context, *chatguard.Request) {}, next)
}

// WrapRequest is Wrap with a hook to adjust the request before the guard
// sees it, e.g. to redirect it to a connected chat.
func WrapRequest(guard Guard, prepare func(*gotgbot.Bot, *ext.Context, *chatguard.Request), next handlers.Response) handlers.Response {
	h := guard(func(ctx context.Context, _ *chatguard.Request) error {
		return next(BotFromContext(ctx), UpdateFromContext(ctx))
	})
	return func(b *gotgbot.Bot, ectx *ext.Context) error {
		ctx := context.WithValue(context.Background(), contextKeyUpdate, update{bot: b, ctx: ectx})
		req := NewRequest(b, ectx)
		prepare(b, ectx, req)
		err := h(ctx, req)
		if chatguard.IsDenied(err) || chatguard.IsUnknownActor(err) {
			return nil
		}
		return err
	}
}

// InvalidateOnAdminChange returns a chat member handler that drops a chat's
// cached roster when someone becomes or stops being an administrator.
//
// Example:
//
//	dispatcher.AddHandler(handlers.NewChatMember(nil, telegram.InvalidateOnAdminChange(cache, logger)))
func InvalidateOnAdminChange(cache *chatguard.RosterCache, logger *slog.Logger) handlers.Response {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(_ *gotgbot.Bot, ectx *ext.Context) error {
		u := ectx.ChatMember
		if u == nil {
			u = ectx.MyChatMember
		}
		if u == nil {
			return nil
		}
		if !CrossesAdminBoundary(u) {
			return nil
		}
		if cache.Invalidate(chatguard.ChatID(u.Chat.Id)) {
			logger.Debug("invalidated admin roster",
				slog.Int64("chat_id", u.Chat.Id),
				slog.Int64("user_id", int64(MemberFromChatMember(u.NewChatMember).UserID)))
		}
		return nil
	}
}

// CrossesAdminBoundary returns true if the update promotes a non-admin or
// demotes an admin.
func CrossesAdminBoundary(u *gotgbot.ChatMemberUpdated) bool {
	before := MemberFromChatMember(u.OldChatMember)
	after := MemberFromChatMember(u.NewChatMember)
	return before.IsAdmin() != after.IsAdmin()
}
