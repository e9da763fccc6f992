package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Le-Yoy/brendt-store-sub001/internal/storage"
)

// Mirror is where the store copies its record after every change.
// *storage.Scoped implements it.
type Mirror interface {
	Write(ctx context.Context, key string, v any) error
	Read(ctx context.Context, key string, dst any) bool
}

// Store is the only mutation surface for one client's cart. The in-memory
// state is authoritative; the mirror is a cache that survives reloads.
type Store struct {
	mu     sync.Mutex
	items  []Item
	total  decimal.Decimal
	count  int
	mirror Mirror
	logger *slog.Logger
}

func NewStore(m Mirror, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{mirror: m, logger: logger, total: decimal.Zero}
}

// AddOrIncrement appends it, or adds its quantity to the line with the same key.
// A merge that would pass MaxQuantity is rejected and changes nothing.
func (s *Store) AddOrIncrement(ctx context.Context, it Item) error {
	if err := it.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(it.Key()); i >= 0 {
		if s.items[i].Quantity > MaxQuantity-it.Quantity {
			return ErrInvalidQuantity
		}
		s.items[i].Quantity += it.Quantity
	} else {
		s.items = append(s.items, it)
	}
	s.commit(ctx)
	return nil
}

// UpdateQuantity sets the quantity of an existing line. Quantities outside
// 1..MaxQuantity are rejected; use RemoveItem instead. An unknown line is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(Key{ProductID: productID, Size: size, Color: color}); i >= 0 {
		s.items[i].Quantity = quantity
	}
	s.commit(ctx)
	return nil
}

// RemoveItem deletes the matching line, if any.
func (s *Store) RemoveItem(ctx context.Context, productID, size, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(Key{ProductID: productID, Size: size, Color: color}); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.commit(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.commit(ctx)
}

// Load replaces the whole cart. Only restoration uses it. Duplicate keys are
// merged and invalid lines dropped; the record's total is recomputed.
func (s *Store) Load(ctx context.Context, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load(rec)
	s.commit(ctx)
}

// RestoreIfEmpty rehydrates an empty store from the mirror. It reports
// whether anything was restored.
func (s *Store) RestoreIfEmpty(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 {
		return false
	}
	var rec Record
	if !s.mirror.Read(ctx, storage.KeyCart, &rec) || len(rec.Items) == 0 {
		return false
	}
	s.load(rec)
	if len(s.items) == 0 {
		return false
	}
	s.commit(ctx)
	s.logger.InfoContext(ctx, "cart restored from storage", "items", len(s.items))
	return true
}

// Persist rewrites the current record to storage and reports the outcome.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror.Write(ctx, storage.KeyCart, s.record())
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Items: s.copyItems(), Total: s.total, ItemCount: s.count}
}

func (s *Store) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record()
}

// --- helpers (callers hold mu) ---

func (s *Store) indexOf(k Key) int {
	for i := range s.items {
		if s.items[i].Key() == k {
			return i
		}
	}
	return -1
}

func (s *Store) load(rec Record) {
	s.items = nil
	for _, it := range rec.Items {
		if it.validate() != nil {
			continue
		}
		if i := s.indexOf(it.Key()); i >= 0 {
			s.items[i].Quantity = min(s.items[i].Quantity+it.Quantity, MaxQuantity)
			continue
		}
		s.items = append(s.items, it)
	}
}

// commit recomputes derived totals and mirrors the record. Storage failures
// are logged by the adapter and never surface to the caller.
func (s *Store) commit(ctx context.Context) {
	s.total, s.count = totals(s.items)
	if err := s.mirror.Write(ctx, storage.KeyCart, s.record()); err != nil {
		s.logger.WarnContext(ctx, "cart mirror incomplete", "err", err)
	}
}

func (s *Store) record() Record {
	return Record{Items: s.copyItems(), Total: s.total}
}

func (s *Store) copyItems() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
