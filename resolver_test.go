package chatguard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolverTierPredicates validates the global tier checks.
func TestResolverTierPredicates(t *testing.T) {
	r := NewResolver(newTestRegistry(), nil)

	tests := []struct {
		user                               UserID
		whitelist, support, sudo, statsDev bool
	}{
		{testOwner, true, true, true, true},
		{testDev, true, true, true, true},
		{testSudo, true, true, true, false},
		{testSupport, true, true, false, false},
		{testTiger, true, false, false, false},
		{testWolf, true, false, false, false},
		{testMember, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.user.String(), func(t *testing.T) {
			assert.Equal(t, tt.whitelist, r.IsWhitelistPlus(tt.user), "whitelist")
			assert.Equal(t, tt.support, r.IsSupportPlus(tt.user), "support")
			assert.Equal(t, tt.sudo, r.IsSudoPlus(tt.user), "sudo")
			assert.Equal(t, tt.statsDev, r.IsStatsPlus(tt.user), "stats")
			assert.Equal(t, tt.statsDev, r.IsDevPlus(tt.user), "dev")
		})
	}
}

// TestResolverNilRegistry validates a nil registry grants nothing.
func TestResolverNilRegistry(t *testing.T) {
	r := NewResolver(nil, nil)
	assert.NotNil(t, r.Registry())
	assert.False(t, r.IsWhitelistPlus(testOwner))
}

// TestIsUserAdminBypasses validates the cases that never consult the roster.
func TestIsUserAdminBypasses(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.roster.SetError(testGroup, errUpstream)

	tests := []struct {
		name string
		chat Chat
		user UserID
	}{
		{"private chat", Chat{ID: 42, Type: ChatTypePrivate}, testMember},
		{"sudo user", testSupergroup, testSudo},
		{"dev user", testSupergroup, testDev},
		{"owner", testSupergroup, testOwner},
		{"all members are admins", Chat{ID: testGroup, Type: ChatTypeGroup, AllMembersAreAdministrators: true}, testMember},
		{"anonymous admin", testSupergroup, DefaultAnonymousAdminID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := env.resolver.IsUserAdmin(ctx, tt.chat, tt.user, nil)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
	assert.Zero(t, env.roster.Calls(testGroup))
}

// TestIsUserAdminRoster validates roster membership decides for ordinary users.
func TestIsUserAdminRoster(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	ok, err := env.resolver.IsUserAdmin(ctx, testSupergroup, testAdmin, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.resolver.IsUserAdmin(ctx, testSupergroup, testMember, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// Support and whitelist tiers are not chat admins.
	ok, err = env.resolver.IsUserAdmin(ctx, testSupergroup, testSupport, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, env.roster.Calls(testGroup))
}

// TestIsUserAdminSuppliedMember validates a supplied record decides without
// a roster fetch.
func TestIsUserAdminSuppliedMember(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	ok, err := env.resolver.IsUserAdmin(ctx, testSupergroup, testMember, &Member{UserID: testMember, Status: StatusCreator})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.resolver.IsUserAdmin(ctx, testSupergroup, testAdmin, &Member{UserID: testAdmin, Status: StatusRestricted})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Zero(t, env.roster.Calls(testGroup))
}

// TestIsUserAdminRosterFailure validates a roster failure is an error, not a
// denial.
func TestIsUserAdminRosterFailure(t *testing.T) {
	env := newTestEnv()
	env.roster.SetError(testGroup, errUpstream)

	ok, err := env.resolver.IsUserAdmin(context.Background(), testSupergroup, testAdmin, nil)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, IsRosterFetch(err))
	assert.True(t, IsUndecided(err))
}

// TestIsUserAdminUnknownActor validates a missing actor is reported unless a
// bypass applies.
func TestIsUserAdminUnknownActor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.resolver.IsUserAdmin(ctx, testSupergroup, NoUser, nil)
	assert.True(t, IsUnknownActor(err))

	ok, err := env.resolver.IsUserAdmin(ctx, Chat{ID: 42, Type: ChatTypePrivate}, NoUser, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, env.roster.Calls(42))
}

// TestIsUserAdminWithoutCache validates the membership source is used when no
// roster cache is configured.
func TestIsUserAdminWithoutCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	r := NewResolver(newTestRegistry(), nil, WithMembershipSource(env.members))

	ok, err := r.IsUserAdmin(ctx, testSupergroup, testAdmin, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsUserAdmin(ctx, testSupergroup, testMember, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, env.members.Calls())
}

// TestIsUserBanProtected validates admins, tigers and wolves are protected.
func TestIsUserBanProtected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	for _, user := range []UserID{testOwner, testSudo, testTiger, testWolf, testAdmin, DefaultAnonymousAdminID} {
		ok, err := env.resolver.IsUserBanProtected(ctx, testSupergroup, user, nil)
		require.NoError(t, err, user.String())
		assert.True(t, ok, user.String())
	}

	// Support users outside the roster can be banned.
	for _, user := range []UserID{testSupport, testMember} {
		ok, err := env.resolver.IsUserBanProtected(ctx, testSupergroup, user, nil)
		require.NoError(t, err, user.String())
		assert.False(t, ok, user.String())
	}

	ok, err := env.resolver.IsUserBanProtected(ctx, testSupergroup, testSupport, &Member{UserID: testSupport, Status: StatusAdministrator})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.resolver.IsUserBanProtected(ctx, testSupergroup, NoUser, nil)
	assert.True(t, IsUnknownActor(err))
}

// TestIsUserInChat validates presence follows the member status.
func TestIsUserInChat(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	statuses := map[MemberStatus]bool{
		StatusCreator:       true,
		StatusAdministrator: true,
		StatusMember:        true,
		StatusRestricted:    true,
		StatusLeft:          false,
		StatusKicked:        false,
	}
	for status, want := range statuses {
		env.members.Set(testGroup, Member{UserID: 300, Status: status})
		ok, err := env.resolver.IsUserInChat(ctx, testSupergroup, 300)
		require.NoError(t, err)
		assert.Equal(t, want, ok, string(status))
	}
}

// TestIsUserInChatLookupFailure validates lookup failures are errors.
func TestIsUserInChatLookupFailure(t *testing.T) {
	env := newTestEnv()
	env.members.err = errUpstream

	_, err := env.resolver.IsUserInChat(context.Background(), testSupergroup, testMember)
	assert.True(t, IsMembershipLookup(err))
	assert.ErrorIs(t, err, errUpstream)

	r := NewResolver(nil, nil)
	_, err = r.IsUserInChat(context.Background(), testSupergroup, testMember)
	assert.True(t, IsMembershipLookup(err))
}

// TestEffectiveTier validates global tiers win over chat roles.
func TestEffectiveTier(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	tests := map[UserID]Tier{
		testOwner:  TierOwner,
		testWolf:   TierWolf,
		testAdmin:  TierChatAdmin,
		testMember: TierMember,
	}
	for user, want := range tests {
		got, err := env.resolver.EffectiveTier(ctx, testSupergroup, user, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got, user.String())
	}
}

// TestUserRights validates per-member rights, with the creator holding all.
func TestUserRights(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := &Member{UserID: 300, Status: StatusCreator}

	ok, err := env.resolver.UserCanPin(ctx, testSupergroup, testAdmin, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.resolver.UserCanPromote(ctx, testSupergroup, testAdmin, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, check := range []func(context.Context, Chat, UserID, *Member) (bool, error){
		env.resolver.UserCanPin,
		env.resolver.UserCanPromote,
		env.resolver.UserCanChangeInfo,
		env.resolver.UserCanManageVideoChats,
		env.resolver.UserCanBan,
	} {
		ok, err := check(ctx, testSupergroup, 300, creator)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err = env.resolver.UserCanPin(ctx, testSupergroup, NoUser, nil)
	assert.True(t, IsUnknownActor(err))
}

// TestUserCanBan validates who may ban.
func TestUserCanBan(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.members.Set(testGroup, Member{UserID: 301, Status: StatusAdministrator, CanRestrictMembers: true})

	tests := []struct {
		name string
		user UserID
		want bool
	}{
		{"sudo", testSudo, true},
		{"dev", testDev, true},
		{"anonymous admin", DefaultAnonymousAdminID, true},
		{"admin with restrict right", 301, true},
		{"admin without restrict right", testAdmin, false},
		{"member", testMember, false},
		{"support", testSupport, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := env.resolver.UserCanBan(ctx, testSupergroup, tt.user, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err := env.resolver.UserCanBan(ctx, testSupergroup, NoUser, nil)
	assert.True(t, IsUnknownActor(err))
}

// TestAnonymousAdminOverride validates the anonymous admin id is configurable.
func TestAnonymousAdminOverride(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	r := NewResolver(newTestRegistry(), env.cache, WithAnonymousAdminID(777))

	ok, err := r.IsUserAdmin(ctx, testSupergroup, 777, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsUserAdmin(ctx, testSupergroup, DefaultAnonymousAdminID, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestWolfIsProtectedButNotAdmin validates a whitelisted user is ban
// protected without being a chat admin.
func TestWolfIsProtectedButNotAdmin(t *testing.T) {
	ctx := context.Background()
	roster := newFakeRosterSource()
	roster.SetRoster(testGroup, testAdmin)
	registry, err := NewRegistryBuilder().Grant(TierWolf, 42).Build()
	require.NoError(t, err)
	r := NewResolver(registry, NewRosterCache(roster))

	ok, err := r.IsUserBanProtected(ctx, testSupergroup, 42, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsUserAdmin(ctx, testSupergroup, 42, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	roster.SetRoster(testGroup, testAdmin, 42)
	r.Cache().Invalidate(testGroup)
	ok, err = r.IsUserAdmin(ctx, testSupergroup, 42, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestRosterMembershipScenario validates admin status follows the fetched
// roster.
func TestRosterMembershipScenario(t *testing.T) {
	ctx := context.Background()
	chat := Chat{ID: 100, Type: ChatTypeSupergroup}
	roster := newFakeRosterSource()
	roster.SetRoster(100, 7, 9)
	r := NewResolver(EmptyRegistry(), NewRosterCache(roster))

	ok, err := r.IsUserAdmin(ctx, chat, 7, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsUserAdmin(ctx, chat, 8, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, roster.Calls(100))
}
