package chatguard

import "strings"

// Request carries what a guard needs to decide on one invocation of a
// guarded operation.
type Request struct {
	// Chat is the chat the operation acts on.
	Chat Chat

	// Origin is the chat the triggering message was sent in, when the
	// dispatch layer redirected the command to a connected chat. Nil means
	// the command targets the chat it was sent in.
	Origin *Chat

	// ActorID is the user who triggered the operation, or NoUser.
	ActorID UserID

	// Member is the actor's membership record in Chat, when already known.
	Member *Member

	// BotMember is the bot's membership record in Chat, when already known.
	BotMember *Member

	// Text is the raw text of the triggering message.
	Text string

	// Responder acts on the triggering message when a guard denies.
	// Nil disables replies and deletions.
	Responder Responder
}

// HasActor returns true if the acting user is known.
func (r *Request) HasActor() bool {
	return r.ActorID != NoUser
}

// IsBareCommand returns true if the trigger text has no space in it, i.e.
// a command sent without arguments. This follows the dispatch layer's
// convention of separating arguments by spaces; it is not a parser.
func (r *Request) IsBareCommand() bool {
	return !strings.Contains(r.Text, " ")
}

// IsRedirected returns true if the operation targets a chat other than
// the one the command was sent in.
func (r *Request) IsRedirected() bool {
	return r.Origin != nil && r.Origin.ID != r.Chat.ID
}

// RedirectTo returns a copy of r acting on chat, with r's chat recorded as
// the origin. Dispatch layers use it for commands sent to a connected chat.
func (r *Request) RedirectTo(chat Chat) *Request {
	out := *r
	origin := r.Chat
	if r.Origin != nil {
		origin = *r.Origin
	}
	out.Origin = &origin
	out.Chat = chat
	out.Member = nil
	out.BotMember = nil
	return &out
}
