package chatguard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// Store persists global tier grants in PostgreSQL through dbkit.
// Grants made at runtime take effect when the Registry is next built;
// a built Registry never changes.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: cfg.DatabaseURL})
//	store := chatguard.NewStore(db)
//	if err := store.Migrate(ctx); err != nil {
//	    return err
//	}
//	builder := cfg.RegistryBuilder()
//	if err := store.LoadInto(ctx, builder); err != nil {
//	    return err
//	}
//	registry, err := builder.Build()
type Store struct {
	db     dbkit.IDB
	logger *slog.Logger
}

var _ PrivilegeStore = (*Store)(nil)

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for store operations.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store on db.
func NewStore(db dbkit.IDB, opts ...StoreOption) *Store {
	s := &Store{
		db:     db,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate applies the store's migrations.
func (s *Store) Migrate(ctx context.Context) error {
	db, ok := s.db.(*dbkit.DBKit)
	if !ok {
		return NewError(ErrDatabaseError, "migrations require a dbkit.DBKit instance")
	}
	if _, err := db.Migrate(ctx, s.Migrations()); err != nil {
		return NewError(ErrDatabaseError, "run migrations").WithCause(err)
	}
	return nil
}

// Grant records userID in tier. Granting an existing grant is a no-op.
//
// Example:
//
//	err := store.Grant(ctx, 1001, chatguard.TierSudo, ownerID)
func (s *Store) Grant(ctx context.Context, userID UserID, tier Tier, grantedBy UserID) error {
	if err := validateGrant(userID, tier); err != nil {
		return err
	}

	grant := &PrivilegeGrant{
		UserID:    int64(userID),
		Tier:      tier.String(),
		GrantedBy: int64(grantedBy),
		CreatedAt: time.Now(),
	}
	result, err := s.db.NewInsert().Model(grant).Exec(ctx)
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil
		}
		return NewError(ErrDatabaseError, "create privilege grant").
			WithUser(userID).
			WithTier(tier).
			WithCause(dbkit.WithErr(result, err, "GrantPrivilege").Err())
	}

	s.logger.Info("privilege granted",
		slog.Int64("user_id", int64(userID)),
		slog.String("tier", tier.String()),
		slog.Int64("granted_by", int64(grantedBy)))
	return nil
}

// Revoke removes userID from tier. Revoking a missing grant is a no-op.
func (s *Store) Revoke(ctx context.Context, userID UserID, tier Tier) error {
	if err := validateGrant(userID, tier); err != nil {
		return err
	}

	result, err := s.db.NewDelete().
		Model((*PrivilegeGrant)(nil)).
		Where("user_id = ? AND tier = ?", int64(userID), tier.String()).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "RevokePrivilege").Err(); err != nil {
		return NewError(ErrDatabaseError, "delete privilege grant").
			WithUser(userID).
			WithTier(tier).
			WithCause(err)
	}

	s.logger.Info("privilege revoked",
		slog.Int64("user_id", int64(userID)),
		slog.String("tier", tier.String()))
	return nil
}

// List returns the grants matching filter, oldest first.
func (s *Store) List(ctx context.Context, filter GrantFilter) ([]PrivilegeGrant, error) {
	var grants []PrivilegeGrant
	q := s.db.NewSelect().Model(&grants)
	if filter.UserID != NoUser {
		q = q.Where("user_id = ?", int64(filter.UserID))
	}
	if len(filter.Tiers) > 0 {
		q = q.Where("tier IN (?)", bun.In(filter.tierNames()))
	}
	if filter.GrantedBy != NoUser {
		q = q.Where("granted_by = ?", int64(filter.GrantedBy))
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	q = q.Order("created_at ASC", "id ASC")

	if err := dbkit.WithErr1(q.Scan(ctx), "ListPrivilegeGrants").Err(); err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, NewError(ErrDatabaseError, "list privilege grants").WithCause(err)
	}
	return grants, nil
}

// ReplaceTier makes ids the exact membership of tier in a single transaction.
func (s *Store) ReplaceTier(ctx context.Context, tier Tier, ids []UserID, grantedBy UserID) error {
	if !tier.IsGlobal() {
		return NewError(ErrInvalidTier, "only global tiers can be stored").WithTier(tier)
	}

	now := time.Now()
	grants := make([]*PrivilegeGrant, 0, len(ids))
	seen := make(map[UserID]struct{}, len(ids))
	for _, id := range ids {
		if id == NoUser {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		grants = append(grants, &PrivilegeGrant{
			UserID:    int64(id),
			Tier:      tier.String(),
			GrantedBy: int64(grantedBy),
			CreatedAt: now,
		})
	}

	return s.transaction(ctx, func(db dbkit.IDB) error {
		result, err := db.NewDelete().
			Model((*PrivilegeGrant)(nil)).
			Where("tier = ?", tier.String()).
			Exec(ctx)
		if err = dbkit.WithErr(result, err, "ClearTier").Err(); err != nil {
			return NewError(ErrDatabaseError, "clear tier").WithTier(tier).WithCause(err)
		}
		if len(grants) == 0 {
			return nil
		}
		result, err = db.NewInsert().Model(&grants).Exec(ctx)
		if err = dbkit.WithErr(result, err, "FillTier").Err(); err != nil {
			return NewError(ErrDatabaseError, "fill tier").WithTier(tier).WithCause(err)
		}
		return nil
	})
}

// LoadInto adds every stored grant to builder. Rows naming an unknown tier
// are skipped and logged.
func (s *Store) LoadInto(ctx context.Context, builder *RegistryBuilder) error {
	grants, err := s.List(ctx, NewGrantFilter())
	if err != nil {
		return err
	}
	for _, g := range grants {
		tier, err := ParseTier(g.Tier)
		if err != nil || !tier.IsGlobal() {
			s.logger.Warn("skipping stored grant with unknown tier",
				slog.Int64("id", g.ID),
				slog.Int64("user_id", g.UserID),
				slog.String("tier", g.Tier))
			continue
		}
		builder.Grant(tier, UserID(g.UserID))
	}
	s.logger.Debug("loaded stored privilege grants", slog.Int("count", len(grants)))
	return nil
}

// Ping performs a basic connectivity test to the database.
func (s *Store) Ping(ctx context.Context) error {
	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.PingContext(ctx)
	}
	var result int
	return s.db.NewSelect().ColumnExpr("1").Scan(ctx, &result)
}

// Health reports the database status. Only a dbkit.DBKit instance gives
// full details; other handles get a ping-based answer.
func (s *Store) Health(ctx context.Context) dbkit.HealthStatus {
	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.Health(ctx)
	}
	err := s.Ping(ctx)
	status := dbkit.HealthStatus{Healthy: err == nil}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

// transaction runs fn in a transaction, nesting through a savepoint when the
// store already runs inside one.
func (s *Store) transaction(ctx context.Context, fn func(db dbkit.IDB) error) error {
	switch db := s.db.(type) {
	case *dbkit.Tx:
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(tx)
		})
	case *dbkit.DBKit:
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(tx)
		})
	default:
		return fmt.Errorf("%w: transaction support requires a dbkit.DBKit or dbkit.Tx instance", ErrDatabaseError)
	}
}

func validateGrant(userID UserID, tier Tier) error {
	if !tier.IsGlobal() {
		return NewError(ErrInvalidTier, "only global tiers can be stored").WithTier(tier).WithUser(userID)
	}
	if userID == NoUser {
		return NewError(ErrUnknownActor, "grant needs a user").WithTier(tier)
	}
	return nil
}
