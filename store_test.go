package chatguard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateGrant tests grant validation without a database
func TestValidateGrant(t *testing.T) {
	tests := []struct {
		name    string
		user    UserID
		tier    Tier
		wantErr error
	}{
		{"global tier", testSudo, TierSudo, nil},
		{"owner tier", testOwner, TierOwner, nil},
		{"chat admin is contextual", testAdmin, TierChatAdmin, ErrInvalidTier},
		{"member is contextual", testMember, TierMember, ErrInvalidTier},
		{"missing user", NoUser, TierWolf, ErrUnknownActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateGrant(tt.user, tt.tier)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestStoreRejectsInvalidGrants tests validation runs before the database is touched
func TestStoreRejectsInvalidGrants(t *testing.T) {
	store := NewStore(nil)

	err := store.Grant(t.Context(), testAdmin, TierChatAdmin, testOwner)
	assert.ErrorIs(t, err, ErrInvalidTier)

	err = store.Revoke(t.Context(), NoUser, TierSudo)
	assert.ErrorIs(t, err, ErrUnknownActor)

	err = store.ReplaceTier(t.Context(), TierMember, []UserID{testMember}, testOwner)
	assert.ErrorIs(t, err, ErrInvalidTier)
}

// TestStoreMigrations tests the migration list
func TestStoreMigrations(t *testing.T) {
	migrations := NewStore(nil).Migrations()
	require.Len(t, migrations, 3)

	seen := make(map[string]bool)
	for _, m := range migrations {
		assert.False(t, seen[m.ID], "duplicate migration id %s", m.ID)
		seen[m.ID] = true
		assert.NotEmpty(t, m.Description)
		assert.Contains(t, m.SQL, "privilege_grants")
	}
}

// TestGrantFilter tests the filter builders
func TestGrantFilter(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(24 * time.Hour)
	tiers := []Tier{TierSudo, TierWolf}

	f := NewGrantFilter().
		WithUser(testSudo).
		WithTiers(tiers...).
		WithGrantedBy(testOwner).
		WithTimeRange(since, until).
		WithPagination(10, 20)

	assert.Equal(t, testSudo, f.UserID)
	assert.Equal(t, testOwner, f.GrantedBy)
	assert.Equal(t, since, f.Since)
	assert.Equal(t, until, f.Until)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
	assert.Equal(t, []string{TierSudo.String(), TierWolf.String()}, f.tierNames())

	// The filter keeps its own copy of the tiers.
	tiers[0] = TierOwner
	assert.Equal(t, TierSudo, f.Tiers[0])

	assert.Equal(t, GrantFilter{}, NewGrantFilter())
}

// TestStoreGrantAndRevoke tests the grant lifecycle against the database
func TestStoreGrantAndRevoke(t *testing.T) {
	h := NewTestStoreHelper(t)
	if h == nil {
		return
	}
	store := h.Store()
	user := h.UniqueUser()

	h.Grant(user, TierSudo)
	h.AssertGranted(user, TierSudo)

	// Granting twice is a no-op.
	require.NoError(t, store.Grant(h.Context(), user, TierSudo, testOwner))
	grants, err := store.List(h.Context(), NewGrantFilter().WithUser(user))
	require.NoError(t, err)
	assert.Len(t, grants, 1)

	require.NoError(t, store.Revoke(h.Context(), user, TierSudo))
	h.AssertNotGranted(user, TierSudo)

	// Revoking a missing grant is a no-op.
	require.NoError(t, store.Revoke(h.Context(), user, TierSudo))
}

// TestStoreListFilters tests list filtering against the database
func TestStoreListFilters(t *testing.T) {
	h := NewTestStoreHelper(t)
	if h == nil {
		return
	}
	store := h.Store()
	user := h.UniqueUser()

	h.Grant(user, TierTiger)
	h.Grant(user, TierWolf)

	grants, err := store.List(h.Context(), NewGrantFilter().WithUser(user))
	require.NoError(t, err)
	assert.Len(t, grants, 2)

	grants, err = store.List(h.Context(), NewGrantFilter().WithUser(user).WithTiers(TierWolf))
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, TierWolf.String(), grants[0].Tier)

	grants, err = store.List(h.Context(), NewGrantFilter().WithUser(user).WithPagination(1, 0))
	require.NoError(t, err)
	assert.Len(t, grants, 1)

	grants, err = store.List(h.Context(), NewGrantFilter().WithUser(user).WithTiers(TierDev))
	require.NoError(t, err)
	assert.Empty(t, grants)
}

// TestStoreReplaceTierAndLoad tests replacing a tier and loading it into a registry
func TestStoreReplaceTierAndLoad(t *testing.T) {
	h := NewTestStoreHelper(t)
	if h == nil {
		return
	}
	store := h.Store()
	first := h.UniqueUser()
	second := first + 1

	existing, err := store.List(h.Context(), NewGrantFilter().WithTiers(TierSupport))
	require.NoError(t, err)
	t.Cleanup(func() {
		ids := make([]UserID, 0, len(existing))
		for _, g := range existing {
			ids = append(ids, UserID(g.UserID))
		}
		_ = store.ReplaceTier(h.Context(), TierSupport, ids, NoUser)
	})

	require.NoError(t, store.ReplaceTier(h.Context(), TierSupport, []UserID{first, second, first, NoUser}, testOwner))

	grants, err := store.List(h.Context(), NewGrantFilter().WithTiers(TierSupport))
	require.NoError(t, err)
	assert.Len(t, grants, 2)

	builder := NewRegistryBuilder().Grant(TierOwner, testOwner)
	require.NoError(t, store.LoadInto(h.Context(), builder))
	registry, err := builder.Build()
	require.NoError(t, err)

	assert.True(t, registry.Has(TierSupport, first))
	assert.True(t, registry.Has(TierSupport, second))
	assert.True(t, registry.Has(TierOwner, testOwner))
}

// TestStoreHealth tests the database health check
func TestStoreHealth(t *testing.T) {
	h := NewTestStoreHelper(t)
	if h == nil {
		return
	}

	require.NoError(t, h.Store().Ping(h.Context()))
	assert.True(t, h.Store().Health(h.Context()).Healthy)
}
