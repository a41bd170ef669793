package wizard

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/turtacn/sds-wizard/pkg/errors"
)

// MemoryStore is an in-process SessionStore for single-node deployments and
// tests.  Sessions expire ttl after their last write.
type MemoryStore struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewMemoryStore builds a MemoryStore.  A non-positive ttl keeps sessions
// until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryStore{c: cache.New(ttl, time.Minute), ttl: ttl}
}

func (m *MemoryStore) Load(_ context.Context, id string) (WizardState, error) {
	v, ok := m.c.Get(id)
	if !ok {
		return WizardState{}, errors.New(errors.ErrCodeSDSSession, "wizard session not found").WithDetail(id)
	}
	return v.(WizardState).Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, st WizardState) error {
	if st.SessionID == "" {
		return errors.InvalidParam("session id is required")
	}
	m.c.Set(st.SessionID, st.Clone(), m.ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.c.Delete(id)
	return nil
}

// Len is the number of live sessions.
func (m *MemoryStore) Len() int { return m.c.ItemCount() }

//Personal.AI order the ending
