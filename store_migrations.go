package chatguard

import (
	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required by the Store.
// Use dbkit.Migrate(ctx, store.Migrations()) to run them, or Store.Migrate.
func (s *Store) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "chatguard-001",
			Description: "Create privilege_grants table",
			SQL: `
                CREATE TABLE IF NOT EXISTS privilege_grants (
                    id BIGSERIAL PRIMARY KEY,
                    user_id BIGINT NOT NULL,
                    tier TEXT NOT NULL,
                    granted_by BIGINT NOT NULL DEFAULT 0,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "chatguard-002",
			Description: "Add unique index on privilege_grants (user_id, tier)",
			SQL: `
                CREATE UNIQUE INDEX IF NOT EXISTS privilege_grants_user_tier_idx
                    ON privilege_grants (user_id, tier)`,
		},
		{
			ID:          "chatguard-003",
			Description: "Add index on privilege_grants (tier)",
			SQL: `
                CREATE INDEX IF NOT EXISTS privilege_grants_tier_idx
                    ON privilege_grants (tier)`,
		},
	}
}
