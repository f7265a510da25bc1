package dialogue

import (
	"sync"
	"time"
)

const (
	defaultLang = "en"
	defaultName = "Customer"
)

// MemoryStore keeps sessions and the customer index under one lock so a
// bind can never race an index scan.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]Session
	byCustomer map[string]map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]Session),
		byCustomer: make(map[string]map[string]bool),
	}
}

func (st *MemoryStore) GetOrCreate(sessionID string) Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[sessionID]; ok {
		return s
	}

	s := Session{
		ID:           sessionID,
		CustomerLang: defaultLang,
		CustomerName: defaultName,
		UpdatedAt:    time.Now(),
	}
	st.sessions[sessionID] = s
	return s
}

func (st *MemoryStore) Get(sessionID string) (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[sessionID]
	return s, ok
}

func (st *MemoryStore) Save(s Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	prev, existed := st.sessions[s.ID]
	if existed && prev.CustomerID != "" && prev.CustomerID != s.CustomerID {
		delete(st.byCustomer[prev.CustomerID], s.ID)
		if len(st.byCustomer[prev.CustomerID]) == 0 {
			delete(st.byCustomer, prev.CustomerID)
		}
	}

	s.UpdatedAt = time.Now()
	st.sessions[s.ID] = s

	if s.CustomerID != "" {
		if st.byCustomer[s.CustomerID] == nil {
			st.byCustomer[s.CustomerID] = make(map[string]bool)
		}
		st.byCustomer[s.CustomerID][s.ID] = true
	}
}

func (st *MemoryStore) SetLanguageForCustomer(customerID string, lang string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	ids := st.byCustomer[customerID]
	for id := range ids {
		s := st.sessions[id]
		s.CustomerLang = lang
		s.UpdatedAt = time.Now()
		st.sessions[id] = s
	}
	return len(ids) > 0
}

func (st *MemoryStore) LanguageForCustomer(customerID string) (string, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.latest(customerID)
	if !ok {
		return "", false
	}
	return s.CustomerLang, true
}

func (st *MemoryStore) NameForCustomer(customerID string) (string, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.latest(customerID)
	if !ok {
		return "", false
	}
	return s.CustomerName, true
}

// latest picks the most recently updated session bound to customerID.
// Caller holds at least the read lock.
func (st *MemoryStore) latest(customerID string) (Session, bool) {
	var best Session
	found := false
	for id := range st.byCustomer[customerID] {
		s := st.sessions[id]
		if !found || s.UpdatedAt.After(best.UpdatedAt) {
			best = s
			found = true
		}
	}
	return best, found
}
