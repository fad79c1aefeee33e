// Package telegram connects chatguard to the Telegram Bot API through
// gotgbot.
package telegram

import (
	"context"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/fernandezvara/chatguard"
)

// DefaultTimeout bounds each Bot API call made by a Source.
const DefaultTimeout = 10 * time.Second

// Source answers roster and membership questions with Bot API calls.
type Source struct {
	bot     *gotgbot.Bot
	timeout time.Duration
}

var (
	_ chatguard.RosterSource     = (*Source)(nil)
	_ chatguard.MembershipSource = (*Source)(nil)
)

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *Source) {
		s.timeout = d
	}
}

// NewSource creates a Source calling the API as b.
func NewSource(b *gotgbot.Bot, opts ...SourceOption) *Source {
	s := &Source{bot: b, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetChatAdministrators returns the ids of the chat's administrators,
// creator included.
func (s *Source) GetChatAdministrators(ctx context.Context, chatID chatguard.ChatID) ([]chatguard.UserID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	members, err := s.bot.GetChatAdministratorsWithContext(ctx, int64(chatID), nil)
	if err != nil {
		return nil, err
	}
	ids := make([]chatguard.UserID, 0, len(members))
	for _, m := range members {
		ids = append(ids, chatguard.UserID(m.GetUser().Id))
	}
	return ids, nil
}

// GetMember returns the membership record of userID in chatID.
func (s *Source) GetMember(ctx context.Context, chatID chatguard.ChatID, userID chatguard.UserID) (chatguard.Member, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	m, err := s.bot.GetChatMemberWithContext(ctx, int64(chatID), int64(userID), nil)
	if err != nil {
		return chatguard.Member{}, err
	}
	return MemberFromChatMember(m), nil
}

func (s *Source) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// MemberFromChatMember converts a Bot API chat member.
func MemberFromChatMember(m gotgbot.ChatMember) chatguard.Member {
	if m == nil {
		return chatguard.Member{Status: chatguard.StatusLeft}
	}
	merged := m.MergeChatMember()
	member := chatguard.Member{
		UserID: chatguard.UserID(merged.User.Id),
		Status: chatguard.MemberStatus(merged.Status),
	}
	switch member.Status {
	case chatguard.StatusCreator:
		member.CanDeleteMessages = true
		member.CanPinMessages = true
		member.CanPromoteMembers = true
		member.CanRestrictMembers = true
		member.CanChangeInfo = true
		member.CanManageVideoChats = true
	case chatguard.StatusAdministrator:
		member.CanDeleteMessages = merged.CanDeleteMessages
		member.CanPinMessages = merged.CanPinMessages
		member.CanPromoteMembers = merged.CanPromoteMembers
		member.CanRestrictMembers = merged.CanRestrictMembers
		member.CanChangeInfo = merged.CanChangeInfo
		member.CanManageVideoChats = merged.CanManageVideoChats
	}
	return member
}

// ChatFromGotgbot converts a Bot API chat. The Bot API no longer reports
// all-members-are-administrators groups, so that flag is always false.
func ChatFromGotgbot(c *gotgbot.Chat) chatguard.Chat {
	if c == nil {
		return chatguard.Chat{}
	}
	title := c.Title
	if title == "" {
		title = c.FirstName
	}
	return chatguard.Chat{
		ID:    chatguard.ChatID(c.Id),
		Type:  chatguard.ChatType(c.Type),
		Title: title,
	}
}
