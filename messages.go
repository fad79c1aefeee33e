package chatguard

import "fmt"

// ChatMessage is a denial text with a variant for commands redirected to
// another chat. Elsewhere takes the target chat's title as its only verb.
type ChatMessage struct {
	Here      string
	Elsewhere string
}

// Text returns the variant matching req.
func (m ChatMessage) Text(req *Request) string {
	if req.IsRedirected() && m.Elsewhere != "" {
		return fmt.Sprintf(m.Elsewhere, req.Chat.Title)
	}
	return m.Here
}

// Messages is the denial copy used by the preset guards.
type Messages struct {
	DevOnly        string
	SudoOnly       string
	AdminOnly      string
	NotWhitelisted string
	CannotBan      string

	BotNotAdmin       ChatMessage
	BotCannotDelete   ChatMessage
	BotCannotPin      ChatMessage
	BotCannotPromote  ChatMessage
	BotCannotRestrict ChatMessage
}

// DefaultMessages returns the built-in denial copy.
func DefaultMessages() Messages {
	return Messages{
		DevOnly:        "This command is restricted to the bot's developers.",
		SudoOnly:       "Become an admin first.",
		AdminOnly:      "Become an admin first.",
		NotWhitelisted: "You don't have access to use this.",
		CannotBan:      "You don't have the rights to ban users here.",
		BotNotAdmin: ChatMessage{
			Here:      "I'm not an admin here!",
			Elsewhere: "I'm not an admin in %s!",
		},
		BotCannotDelete: ChatMessage{
			Here:      "I can't delete messages here!\nMake sure I'm admin and can delete other users' messages.",
			Elsewhere: "I can't delete messages in %s!\nMake sure I'm admin and can delete other users' messages there.",
		},
		BotCannotPin: ChatMessage{
			Here:      "I can't pin messages here!\nMake sure I'm admin and can pin messages.",
			Elsewhere: "I can't pin messages in %s!\nMake sure I'm admin and can pin messages there.",
		},
		BotCannotPromote: ChatMessage{
			Here:      "I can't promote or demote people here!\nMake sure I'm admin and can appoint new admins.",
			Elsewhere: "I can't promote or demote people in %s!\nMake sure I'm admin there and can appoint new admins.",
		},
		BotCannotRestrict: ChatMessage{
			Here:      "I can't restrict people here!\nMake sure I'm admin and can restrict users.",
			Elsewhere: "I can't restrict people in %s!\nMake sure I'm admin there and can restrict users.",
		},
	}
}

// WithSupportChat returns a copy of m whose whitelist denial points users to
// the given support chat username. An empty name leaves m unchanged.
func (m Messages) WithSupportChat(username string) Messages {
	if username != "" {
		m.NotWhitelisted = fmt.Sprintf("You don't have access to use this.\nVisit @%s", username)
	}
	return m
}
