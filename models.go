package chatguard

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// UserID identifies a user account.
type UserID int64

// NoUser is the zero UserID, used when a request has no identifiable actor.
const NoUser UserID = 0

// DefaultAnonymousAdminID is the account that stands in for anonymous group
// administrators. Messages sent by it are always treated as coming from an admin.
const DefaultAnonymousAdminID UserID = 1640741180

// String returns the decimal form of the id.
func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// ChatID identifies a chat or group.
type ChatID int64

// String returns the decimal form of the id.
func (c ChatID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// ChatType is the kind of conversation a chat is.
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// Chat describes the chat a guarded operation targets.
type Chat struct {
	ID    ChatID
	Type  ChatType
	Title string

	// AllMembersAreAdministrators is set for legacy groups where every
	// member holds admin rights.
	AllMembersAreAdministrators bool
}

// IsPrivate returns true for one-to-one conversations with the bot.
func (c Chat) IsPrivate() bool {
	return c.Type == ChatTypePrivate
}

// MemberStatus is a user's membership status in a chat.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// IsAdmin returns true for administrator and creator statuses.
func (s MemberStatus) IsAdmin() bool {
	return s == StatusAdministrator || s == StatusCreator
}

// IsPresent returns true unless the user has left or was kicked.
func (s MemberStatus) IsPresent() bool {
	return s != StatusLeft && s != StatusKicked
}

// Member is a membership record of one user in one chat, as reported by the
// chat platform. Capability flags are only meaningful for administrators.
type Member struct {
	UserID UserID
	Status MemberStatus

	CanDeleteMessages   bool
	CanPinMessages      bool
	CanPromoteMembers   bool
	CanRestrictMembers  bool
	CanChangeInfo       bool
	CanManageVideoChats bool
}

// IsAdmin returns true if the member is an administrator or the creator.
func (m Member) IsAdmin() bool {
	return m.Status.IsAdmin()
}

// PrivilegeGrant records a user's membership in a global tier.
type PrivilegeGrant struct {
	bun.BaseModel `bun:"table:privilege_grants,alias:pg"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	Tier      string    `bun:"tier,notnull"`
	GrantedBy int64     `bun:"granted_by"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
