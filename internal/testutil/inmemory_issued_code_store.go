package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	"github.com/flexcargo/flexcargo/internal/types"
)

var _ sequence.IssuedCodeRepository = (*InMemoryIssuedCodeStore)(nil)

// InMemoryIssuedCodeStore holds document numbers issued outside the allocator
type InMemoryIssuedCodeStore struct {
	mu    sync.RWMutex
	codes map[string][]string
}

func NewInMemoryIssuedCodeStore() *InMemoryIssuedCodeStore {
	return &InMemoryIssuedCodeStore{
		codes: make(map[string][]string),
	}
}

// Add records legacy codes of a sequence type
func (s *InMemoryIssuedCodeStore) Add(tenantID string, sequenceType types.SequenceType, codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := counterKey(tenantID, sequenceType)
	s.codes[key] = append(s.codes[key], codes...)
}

func (s *InMemoryIssuedCodeStore) ListIssuedCodes(ctx context.Context, tenantID string, sequenceType types.SequenceType, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []string
	for _, code := range s.codes[counterKey(tenantID, sequenceType)] {
		if strings.HasPrefix(code, prefix) {
			result = append(result, code)
		}
	}
	return result, nil
}

func (s *InMemoryIssuedCodeStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = make(map[string][]string)
}
