package memory

import (
	"context"
	"sync"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// ContextStore keeps per-user clarification context in process memory. It is
// the default when no Redis address is configured.
type ContextStore struct {
	mu       sync.RWMutex
	contexts map[int64]domain.PriorContext
}

// NewContextStore creates an empty in-process context store.
func NewContextStore() *ContextStore {
	return &ContextStore{contexts: make(map[int64]domain.PriorContext)}
}

func (s *ContextStore) Save(_ context.Context, userID int64, pc domain.PriorContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[userID] = pc
	return nil
}

func (s *ContextStore) Load(_ context.Context, userID int64) (domain.PriorContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pc, ok := s.contexts[userID]
	if !ok {
		return domain.PriorContext{}, domain.ErrContextNotFound
	}
	return pc, nil
}

func (s *ContextStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, userID)
	return nil
}
