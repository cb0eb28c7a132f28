package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/contact-book/internal/logging"
	"github.com/iliyamo/contact-book/internal/model"
	"github.com/iliyamo/contact-book/internal/queue"
	"github.com/iliyamo/contact-book/internal/repository"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fakeClock is a settable time source shared by the components under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type memUsers struct {
	mu     sync.Mutex
	byName map[string]model.User
	nextID uint64
	err    error
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, username, hash string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	if _, ok := m.byName[username]; ok {
		return model.User{}, repository.ErrUsernameTaken
	}
	m.nextID++
	u := model.User{ID: m.nextID, Username: username, PasswordHash: hash}
	m.byName[username] = u
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	u, ok := m.byName[username]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// memRevocations expires entries against the shared fake clock.
type memRevocations struct {
	mu      sync.Mutex
	clock   *fakeClock
	entries map[string]time.Time
	err     error
}

func newMemRevocations(clock *fakeClock) *memRevocations {
	return &memRevocations{clock: clock, entries: map[string]time.Time{}}
}

func (m *memRevocations) Add(_ context.Context, hash string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if exp, ok := m.entries[hash]; ok && m.clock.Now().Before(exp) {
		return false, nil
	}
	m.entries[hash] = m.clock.Now().Add(ttl)
	return true, nil
}

func (m *memRevocations) Contains(_ context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	exp, ok := m.entries[hash]
	return ok && m.clock.Now().Before(exp), nil
}

func (m *memRevocations) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, exp := range m.entries {
		if m.clock.Now().Before(exp) {
			n++
		}
	}
	return n
}

type memContacts struct {
	mu     sync.Mutex
	rows   map[uint64]model.Contact
	nextID uint64
	users  *memUsers
	err    error
}

func newMemContacts(users *memUsers) *memContacts {
	return &memContacts{rows: map[uint64]model.Contact{}, users: users}
}

func (m *memContacts) ownerExists(id uint64) bool {
	if m.users == nil {
		return true
	}
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	for _, u := range m.users.byName {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (m *memContacts) Create(_ context.Context, c *model.Contact) error {
	if !m.ownerExists(c.OwnerID) {
		return repository.ErrOwnerNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	c.ID = m.nextID
	m.rows[c.ID] = *c
	return nil
}

func (m *memContacts) ListByOwner(_ context.Context, ownerID uint64) ([]model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Contact
	for _, c := range m.rows {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memContacts) UpdateByIDAndOwner(_ context.Context, c *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cur, ok := m.rows[c.ID]
	if !ok || cur.OwnerID != c.OwnerID {
		return repository.ErrContactNotFound
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memContacts) DeleteByIDAndOwner(_ context.Context, id, ownerID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cur, ok := m.rows[id]
	if !ok || cur.OwnerID != ownerID {
		return repository.ErrContactNotFound
	}
	delete(m.rows, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.AuthEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

var errBoom = errors.New("boom")

// harness assembles the whole core over in-memory stores.
type harness struct {
	clock       *fakeClock
	users       *memUsers
	revocations *memRevocations
	contacts    *memContacts
	events      *recordingPublisher
	auth        *AuthService
	contactSvc  *ContactService
}

func newHarness() *harness {
	h := &harness{clock: newFakeClock(), users: newMemUsers(), events: &recordingPublisher{}}
	h.revocations = newMemRevocations(h.clock)
	h.contacts = newMemContacts(h.users)

	log := logging.Discard()
	ledger := NewRevocationLedger(h.revocations, h.clock.Now)
	h.auth = NewAuthService(
		NewCredentialStore(h.users, 4, log),
		NewTokenIssuer(testSecret, 15*time.Minute, h.clock.Now),
		NewTokenValidator(testSecret, ledger, h.clock.Now, log),
		ledger,
		h.events,
		log,
	)
	h.auth.now = h.clock.Now
	h.contactSvc = NewContactService(h.contacts, log)
	return h
}
