// Package session provides the narrow key-value store the panel uses for
// per-visitor state such as flash notices. The controller depends only on
// the Store interface, never on a concrete session mechanism.
package session

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Store is one visitor's key-value state.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Has(key string) bool
	Remove(key string)
}

// defaultTTL bounds how long an idle visitor's store is kept.
const defaultTTL = 12 * time.Hour

// Manager hands out per-visitor stores keyed by a session cookie. Stores
// idle longer than the TTL are swept lazily on access, so the map stays
// proportional to the active visitor count.
type Manager struct {
	cookieName string
	ttl        time.Duration

	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	lastSweep time.Time
}

type sessionEntry struct {
	store *memoryStore
	seen  time.Time
}

func NewManager() *Manager {
	return &Manager{
		cookieName: "panel_session",
		ttl:        defaultTTL,
		sessions:   map[string]*sessionEntry{},
		lastSweep:  time.Now(),
	}
}

// Middleware attaches the visitor's store to the request context, issuing
// a session cookie on first contact.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(m.cookieName)
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     m.cookieName,
				Value:    sid,
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}
		c.Locals("session", m.store(sid))
		return c.Next()
	}
}

// FromCtx returns the request's store. Requests outside the middleware get
// a throwaway store, so callers never need a nil check.
func FromCtx(c *fiber.Ctx) Store {
	if s, ok := c.Locals("session").(Store); ok {
		return s
	}
	return newMemoryStore()
}

func (m *Manager) store(sid string) *memoryStore {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(now)

	entry, ok := m.sessions[sid]
	if !ok {
		entry = &sessionEntry{store: newMemoryStore()}
		m.sessions[sid] = entry
	}
	entry.seen = now
	return entry.store
}

// sweepLocked drops idle sessions, at most once per TTL quarter.
func (m *Manager) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < m.ttl/4 {
		return
	}
	m.lastSweep = now
	for sid, entry := range m.sessions {
		if now.Sub(entry.seen) > m.ttl {
			delete(m.sessions, sid)
		}
	}
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]any
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]any{}}
}

func (s *memoryStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memoryStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *memoryStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

func (s *memoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Flash conventions used by the controller.

const flashKey = "flash"

// SetFlash stores a one-shot notice.
func SetFlash(s Store, message string) {
	s.Set(flashKey, message)
}

// PopFlash returns and clears the pending notice.
func PopFlash(s Store) string {
	v, ok := s.Get(flashKey)
	if !ok {
		return ""
	}
	s.Remove(flashKey)
	msg, _ := v.(string)
	return msg
}
