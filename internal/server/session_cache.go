package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/tutor/internal/session"
)

// StoreFactory creates the store of a new browser session.
type StoreFactory func(sessionID uuid.UUID) *session.Store

type sessionEntry struct {
	store        *session.Store
	lastAccessed time.Time
}

// SessionCache keeps at most maxSize stores and evicts the least recently
// used one to make room for a new session.
type SessionCache struct {
	lock     sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
	maxSize  int
	newStore StoreFactory
	now      func() time.Time
}

func NewSessionCache(maxSize int, newStore StoreFactory) *SessionCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &SessionCache{
		sessions: make(map[uuid.UUID]*sessionEntry, maxSize),
		maxSize:  maxSize,
		newStore: newStore,
		now:      time.Now,
	}
}

func (cache *SessionCache) Create() (uuid.UUID, *session.Store) {
	cache.lock.Lock()
	defer cache.lock.Unlock()

	if len(cache.sessions) >= cache.maxSize {
		cache.evictOldest()
	}

	id := uuid.New()
	store := cache.newStore(id)
	cache.sessions[id] = &sessionEntry{
		store:        store,
		lastAccessed: cache.now(),
	}
	return id, store
}

func (cache *SessionCache) Get(id uuid.UUID) (*session.Store, bool) {
	cache.lock.Lock()
	defer cache.lock.Unlock()

	entry, exists := cache.sessions[id]
	if !exists {
		return nil, false
	}
	entry.lastAccessed = cache.now()
	return entry.store, true
}

func (cache *SessionCache) Len() int {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	return len(cache.sessions)
}

// evictOldest must be called with lock held
func (cache *SessionCache) evictOldest() {
	oldestID := uuid.Nil
	var oldestTime time.Time
	for id, entry := range cache.sessions {
		if oldestID == uuid.Nil || entry.lastAccessed.Before(oldestTime) {
			oldestID = id
			oldestTime = entry.lastAccessed
		}
	}
	if oldestID != uuid.Nil {
		delete(cache.sessions, oldestID)
	}
}
