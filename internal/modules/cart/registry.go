package cart

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Le-Yoy/brendt-store-sub001/internal/storage"
)

// Registry owns the live cart of every client. A cart that is evicted or
// expires is rebuilt empty and restored from storage on next use.
type Registry struct {
	mu      sync.Mutex
	stores  *expirable.LRU[string, *Store]
	adapter *storage.Adapter
	logger  *slog.Logger
}

func NewRegistry(adapter *storage.Adapter, maxClients int, ttl time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		stores:  expirable.NewLRU[string, *Store](maxClients, nil, ttl),
		adapter: adapter,
		logger:  logger,
	}
}

// Get returns the cart for scope, creating an empty one when needed.
func (r *Registry) Get(scope string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores.Get(scope); ok {
		r.stores.Add(scope, s) // refresh ttl
		return s
	}
	s := NewStore(r.adapter.For(scope), r.logger.With("client", scope))
	r.stores.Add(scope, s)
	return s
}

// Drop forgets the in-memory cart for scope; storage is untouched.
func (r *Registry) Drop(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores.Remove(scope)
}

// ItemCount reports the live item count for scope, or 0 when the client has
// no cart in memory.
func (r *Registry) ItemCount(scope string) int {
	r.mu.Lock()
	s, ok := r.stores.Peek(scope)
	r.mu.Unlock()
	if !ok {
		return 0
	}
	return s.State().ItemCount
}
