package telegram

import (
	"context"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/fernandezvara/chatguard"
)

// Responder replies to and deletes one triggering message.
type Responder struct {
	bot       *gotgbot.Bot
	chatID    int64
	messageID int64
}

var _ chatguard.Responder = (*Responder)(nil)

// NewResponder creates a Responder for msg.
func NewResponder(b *gotgbot.Bot, msg *gotgbot.Message) *Responder {
	return &Responder{
		bot:       b,
		chatID:    msg.Chat.Id,
		messageID: msg.MessageId,
	}
}

// Reply sends text as a reply to the triggering message. The reply is sent
// even if the trigger was deleted in the meantime.
func (r *Responder) Reply(ctx context.Context, text string) error {
	_, err := r.bot.SendMessageWithContext(ctx, r.chatID, text, &gotgbot.SendMessageOpts{
		ReplyParameters: &gotgbot.ReplyParameters{
			MessageId:                r.messageID,
			AllowSendingWithoutReply: true,
		},
	})
	return err
}

// DeleteTrigger deletes the triggering message.
func (r *Responder) DeleteTrigger(ctx context.Context) error {
	_, err := r.bot.DeleteMessageWithContext(ctx, r.chatID, r.messageID, nil)
	return err
}
