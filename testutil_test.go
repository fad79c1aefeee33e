package chatguard

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errUpstream = errors.New("upstream unavailable")

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeRosterSource serves fixed rosters and counts calls per chat.
type fakeRosterSource struct {
	mu      sync.Mutex
	rosters map[ChatID][]UserID
	errs    map[ChatID]error
	calls   map[ChatID]int
}

func newFakeRosterSource() *fakeRosterSource {
	return &fakeRosterSource{
		rosters: make(map[ChatID][]UserID),
		errs:    make(map[ChatID]error),
		calls:   make(map[ChatID]int),
	}
}

func (s *fakeRosterSource) GetChatAdministrators(_ context.Context, chatID ChatID) ([]UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[chatID]++
	if err := s.errs[chatID]; err != nil {
		return nil, err
	}
	return append([]UserID(nil), s.rosters[chatID]...), nil
}

func (s *fakeRosterSource) SetRoster(chatID ChatID, admins ...UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosters[chatID] = admins
}

func (s *fakeRosterSource) SetError(chatID ChatID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[chatID] = err
}

func (s *fakeRosterSource) Calls(chatID ChatID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[chatID]
}

func (s *fakeRosterSource) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// fakeMembers serves fixed membership records.
type fakeMembers struct {
	mu      sync.Mutex
	members map[ChatID]map[UserID]Member
	err     error
	calls   int
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{members: make(map[ChatID]map[UserID]Member)}
}

func (f *fakeMembers) GetMember(_ context.Context, chatID ChatID, userID UserID) (Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Member{}, f.err
	}
	if m, ok := f.members[chatID][userID]; ok {
		return m, nil
	}
	return Member{UserID: userID, Status: StatusLeft}, nil
}

func (f *fakeMembers) Set(chatID ChatID, m Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[chatID] == nil {
		f.members[chatID] = make(map[UserID]Member)
	}
	f.members[chatID][m.UserID] = m
}

func (f *fakeMembers) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeResponder records the actions taken on a trigger message.
type fakeResponder struct {
	mu        sync.Mutex
	replies   []string
	deletes   int
	replyErr  error
	deleteErr error
}

func (r *fakeResponder) Reply(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replyErr != nil {
		return r.replyErr
	}
	r.replies = append(r.replies, text)
	return nil
}

func (r *fakeResponder) DeleteTrigger(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	return r.deleteErr
}

func (r *fakeResponder) Replies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.replies...)
}

func (r *fakeResponder) Deletes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletes
}

const (
	testOwner   UserID = 1
	testDev     UserID = 10
	testSudo    UserID = 20
	testSupport UserID = 30
	testTiger   UserID = 40
	testWolf    UserID = 50
	testAdmin   UserID = 100
	testMember  UserID = 200
	testBot     UserID = 999

	testGroup ChatID = -1001
)

var testSupergroup = Chat{ID: testGroup, Type: ChatTypeSupergroup, Title: "Test Group"}

func newTestRegistry() *Registry {
	r, err := NewRegistryBuilder().
		Grant(TierOwner, testOwner).
		Grant(TierDev, testDev).
		Grant(TierSudo, testSudo).
		Grant(TierSupport, testSupport).
		Grant(TierTiger, testTiger).
		Grant(TierWolf, testWolf).
		Build()
	if err != nil {
		panic(err)
	}
	return r
}

// testEnv bundles a resolver with its fakes.
type testEnv struct {
	roster   *fakeRosterSource
	members  *fakeMembers
	clock    *fakeClock
	cache    *RosterCache
	resolver *Resolver
}

func newTestEnv() *testEnv {
	env := &testEnv{
		roster:  newFakeRosterSource(),
		members: newFakeMembers(),
		clock:   newFakeClock(),
	}
	env.roster.SetRoster(testGroup, testAdmin, testBot)
	env.members.Set(testGroup, Member{UserID: testAdmin, Status: StatusAdministrator, CanPinMessages: true})
	env.members.Set(testGroup, Member{UserID: testMember, Status: StatusMember})
	env.members.Set(testGroup, Member{
		UserID:             testBot,
		Status:             StatusAdministrator,
		CanDeleteMessages:  true,
		CanRestrictMembers: true,
	})
	env.cache = NewRosterCache(env.roster, WithClock(env.clock.Now))
	env.resolver = NewResolver(newTestRegistry(), env.cache,
		WithMembershipSource(env.members),
		WithBotID(testBot),
	)
	return env
}
