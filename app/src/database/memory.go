package database

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"quote-frontend/app/src/domain"
)

// MemoryRepository keeps quotes in process memory. It backs the reference
// backend when no database is configured and the round-trip tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	quotes []string
	seen   map[string]struct{}
}

var _ domain.QuoteRepository = (*MemoryRepository)(nil)

func NewMemoryRepository(seed ...string) *MemoryRepository {
	repo := &MemoryRepository{seen: make(map[string]struct{})}
	for _, quote := range seed {
		_ = repo.Add(context.Background(), quote)
	}
	return repo
}

func (r *MemoryRepository) Add(_ context.Context, quote string) error {
	quote = strings.TrimSpace(quote)
	if quote == "" {
		return domain.ErrEmptyQuote
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[quote]; ok {
		return nil
	}
	r.seen[quote] = struct{}{}
	r.quotes = append(r.quotes, quote)
	return nil
}

func (r *MemoryRepository) All(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.quotes))
	copy(out, r.quotes)
	return out, nil
}

func (r *MemoryRepository) Random(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.quotes) == 0 {
		return "", domain.ErrQuoteNotFound
	}
	return r.quotes[rand.Intn(len(r.quotes))], nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }
