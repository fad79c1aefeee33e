package chatguard

import "time"

// GrantFilter provides options for filtering privilege grant queries.
type GrantFilter struct {
	// Filter by grantee
	UserID UserID

	// Filter by tier; empty matches every tier
	Tiers []Tier

	// Filter by the user who made the grant
	GrantedBy UserID

	// Filter by grant time
	Since time.Time
	Until time.Time

	// Pagination; a zero Limit returns every match
	Limit  int
	Offset int
}

// NewGrantFilter creates a GrantFilter matching every grant.
func NewGrantFilter() GrantFilter {
	return GrantFilter{}
}

// WithUser sets the grantee filter.
func (f GrantFilter) WithUser(userID UserID) GrantFilter {
	f.UserID = userID
	return f
}

// WithTiers sets the tier filter.
func (f GrantFilter) WithTiers(tiers ...Tier) GrantFilter {
	f.Tiers = append([]Tier(nil), tiers...)
	return f
}

// WithGrantedBy sets the granting user filter.
func (f GrantFilter) WithGrantedBy(userID UserID) GrantFilter {
	f.GrantedBy = userID
	return f
}

// WithTimeRange sets the time range filter.
func (f GrantFilter) WithTimeRange(since, until time.Time) GrantFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithPagination sets both limit and offset.
func (f GrantFilter) WithPagination(limit, offset int) GrantFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}

func (f GrantFilter) tierNames() []string {
	names := make([]string, 0, len(f.Tiers))
	for _, t := range f.Tiers {
		names = append(names, t.String())
	}
	return names
}
