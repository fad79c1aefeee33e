// Package chatguard decides who may run what in a chat-management bot.
//
// Every guarded command asks one of two questions: does the sender hold
// enough privilege, and does the bot hold the rights the command needs.
// chatguard answers both and applies a denial policy when the answer is no.
//
// # Core Concepts
//
// Tier: a privilege level. Global tiers (Owner, Dev, Sudo, Support, Tiger,
// Wolf) come from configuration and hold in every chat. Contextual tiers
// (ChatAdmin, Member) depend on the chat and are derived from its roster.
//
// Registry: an immutable set of global tier grants, built once at startup
// with a RegistryBuilder.
//
// RosterCache: the administrators of each chat, fetched from a RosterSource
// and trusted for a TTL. Entries are refreshed on expiry, dropped on
// invalidation, and evicted to respect a capacity.
//
// Resolver: answers user questions (IsUserAdmin, UserCanBan, ...) and bot
// questions (IsBotAdmin, CanDelete, ...) from the registry, the cache and a
// MembershipSource.
//
// Gate: runs an operation when a Predicate holds and applies a Policy
// otherwise. A failed lookup is neither a grant nor a denial; it is
// returned as an error and the operation does not run.
//
// # Key Features
//
//   - Tier ladder: Owner > Dev > Sudo > Support > Tiger > Wolf
//   - Bypasses: private chats, sudo users and the anonymous admin account
//     are admins without a roster lookup
//   - TTL roster cache with bounded size, invalidation and Prometheus metrics
//   - Denial policies: silent, reply, or delete bare commands
//   - Optional PostgreSQL store for grants made at runtime, via dbkit
//   - Telegram adapter in the telegram subpackage, built on gotgbot
//
// # Basic Usage
//
//	cfg, err := chatguard.LoadConfig()
//	registry, err := cfg.Registry()
//
//	source := telegram.NewSource(bot)
//	cache := chatguard.NewRosterCache(source, cfg.CacheOptions()...)
//	resolver := chatguard.NewResolver(registry, cache,
//	    append(cfg.ResolverOptions(),
//	        chatguard.WithMembershipSource(source),
//	        chatguard.WithBotID(chatguard.UserID(bot.Id)),
//	    )...,
//	)
//
//	guard := chatguard.NewGuard(resolver,
//	    chatguard.WithDeleteCommands(cfg.DeleteCommands),
//	    chatguard.WithMessages(cfg.Messages()),
//	)
//
// # Guarding Handlers
//
//	// Presets compose with Chain; the first guard is checked first.
//	pin := chatguard.Chain(guard.BotCanPin, guard.UserAdmin)(pinMessage)
//
//	// Telegram handlers are wrapped by the adapter.
//	dispatcher.AddHandler(handlers.NewCommand("pin", telegram.Wrap(guard.BotCanPin, pin)))
//
// # Custom Gates
//
//	unban := chatguard.Gate(
//	    chatguard.Any(resolver.RequireSudoPlus(), resolver.RequireUserCanBan()),
//	    chatguard.Reply("You can't unban users here.").IgnoreUnknownActor(),
//	    func(ctx context.Context, req *chatguard.Request) (int, error) {
//	        return unbanAll(ctx, req.Chat.ID)
//	    },
//	)
//
// # Error Handling
//
//	if chatguard.IsDenied(err) {
//	    // The policy already acted
//	}
//	if chatguard.IsUnknownActor(err) {
//	    // Update without a sender
//	}
//	if chatguard.IsUndecided(err) {
//	    // Roster or membership lookup failed; nothing was done
//	}
package chatguard
