package chatguard

import "context"

// RosterSource fetches the administrator roster of a chat from the chat
// platform. Implementations apply their own timeouts.
type RosterSource interface {
	GetChatAdministrators(ctx context.Context, chatID ChatID) ([]UserID, error)
}

// RosterSourceFunc adapts a function to RosterSource.
type RosterSourceFunc func(ctx context.Context, chatID ChatID) ([]UserID, error)

// GetChatAdministrators calls f.
func (f RosterSourceFunc) GetChatAdministrators(ctx context.Context, chatID ChatID) ([]UserID, error) {
	return f(ctx, chatID)
}

// MembershipSource looks up a single user's membership in a chat.
type MembershipSource interface {
	GetMember(ctx context.Context, chatID ChatID, userID UserID) (Member, error)
}

// MembershipSourceFunc adapts a function to MembershipSource.
type MembershipSourceFunc func(ctx context.Context, chatID ChatID, userID UserID) (Member, error)

// GetMember calls f.
func (f MembershipSourceFunc) GetMember(ctx context.Context, chatID ChatID, userID UserID) (Member, error) {
	return f(ctx, chatID, userID)
}

// Responder performs the transport actions a denial policy may take on the
// message that triggered a guarded operation.
type Responder interface {
	// Reply sends text to the conversation the trigger came from.
	Reply(ctx context.Context, text string) error

	// DeleteTrigger deletes the triggering message.
	DeleteTrigger(ctx context.Context) error
}

// PrivilegeStore persists global tier grants.
type PrivilegeStore interface {
	Grant(ctx context.Context, userID UserID, tier Tier, grantedBy UserID) error
	Revoke(ctx context.Context, userID UserID, tier Tier) error
	List(ctx context.Context, filter GrantFilter) ([]PrivilegeGrant, error)
	LoadInto(ctx context.Context, builder *RegistryBuilder) error
}
