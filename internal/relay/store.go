package relay

import (
	"context"
	"sync"
)

// MemoryStore is the default ledger backend.
type MemoryStore struct {
	mu      sync.RWMutex
	ledgers map[string][]Message
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledgers: make(map[string][]Message)}
}

func (st *MemoryStore) Append(_ context.Context, customerID string, m Message) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.ledgers[customerID]; !ok {
		st.order = append(st.order, customerID)
	}
	st.ledgers[customerID] = append(st.ledgers[customerID], m)
	return nil
}

func (st *MemoryStore) Messages(_ context.Context, customerID string) ([]Message, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	msgs := st.ledgers[customerID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (st *MemoryStore) MarkCustomerRead(_ context.Context, customerID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	msgs := st.ledgers[customerID]
	for i := range msgs {
		if msgs[i].Role == RoleCustomer {
			msgs[i].ReadByAgent = true
		}
	}
	return nil
}

func (st *MemoryStore) CustomerIDs(_ context.Context) ([]string, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]string, len(st.order))
	copy(out, st.order)
	return out, nil
}
