package chatguard

import (
	"context"
	"errors"
	"log/slog"
)

// Policy is what a guard does when it denies a request.
type Policy struct {
	name               string
	act                func(ctx context.Context, req *Request) error
	ignoreUnknownActor bool
}

// Name returns the policy's name, used in logs.
func (p Policy) Name() string {
	if p.name == "" {
		return "silent"
	}
	return p.name
}

// IgnoreUnknownActor returns a copy of p that does nothing when the request
// has no actor. Gates using it return ErrUnknownActor in that case instead
// of treating the request as denied.
func (p Policy) IgnoreUnknownActor() Policy {
	p.ignoreUnknownActor = true
	return p
}

// Deny applies the policy to req and returns ErrDenied. A failed reply is
// joined to ErrDenied; a failed deletion is logged and dropped.
func (p Policy) Deny(ctx context.Context, req *Request) error {
	if p.act == nil || req.Responder == nil {
		return ErrDenied
	}
	if err := p.act(ctx, req); err != nil {
		return errors.Join(ErrDenied, err)
	}
	return ErrDenied
}

// Silent denies without acting on the request.
func Silent() Policy {
	return Policy{name: "silent"}
}

// Reply denies by replying text to the triggering message.
func Reply(text string) Policy {
	return ReplyFunc(func(*Request) string { return text })
}

// ReplyFunc denies by replying the text built for the request.
func ReplyFunc(text func(req *Request) string) Policy {
	return Policy{
		name: "reply",
		act: func(ctx context.Context, req *Request) error {
			return req.Responder.Reply(ctx, text(req))
		},
	}
}

// DeleteOrReply denies by deleting the triggering message when
// deleteCommands is set and the message is a bare command, and by replying
// text otherwise.
func DeleteOrReply(deleteCommands bool, text string) Policy {
	return Policy{
		name: "delete_or_reply",
		act: func(ctx context.Context, req *Request) error {
			if deleteCommands && req.IsBareCommand() {
				deleteTrigger(ctx, req)
				return nil
			}
			return req.Responder.Reply(ctx, text)
		},
	}
}

// DeleteBareCommand denies by deleting the triggering message when
// deleteCommands is set and the message is a bare command, and silently
// otherwise.
func DeleteBareCommand(deleteCommands bool) Policy {
	return Policy{
		name: "delete_bare_command",
		act: func(ctx context.Context, req *Request) error {
			if deleteCommands && req.IsBareCommand() {
				deleteTrigger(ctx, req)
			}
			return nil
		},
	}
}

func deleteTrigger(ctx context.Context, req *Request) {
	if err := req.Responder.DeleteTrigger(ctx); err != nil {
		LoggerFromContext(ctx).Warn("failed to delete denied command",
			slog.Int64("chat_id", int64(req.Chat.ID)),
			slog.Int64("user_id", int64(req.ActorID)),
			slog.Any("error", err))
	}
}
