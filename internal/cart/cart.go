// Package cart maintains the buyer's working selection of products before
// checkout. The cart is per-profile, not per-user: signing in or out does
// not touch it. Every mutation is written through to the "cartItems"
// storage key in full, and totals are recomputed from the lines on every
// read so they can never drift.
package cart

import (
	"sync"

	"go.uber.org/zap"

	"ecobazaar/internal/localstore"
	"ecobazaar/internal/types"
)

// Line is one product-and-quantity entry. Product is a snapshot captured
// at add-time; later catalog price changes do not retroactively affect it.
// Quantity is always >= 1: a line that would reach 0 is removed instead.
type Line struct {
	types.Product
	Quantity int `json:"quantity"`
}

// Store holds the cart for this process, mirrored to durable storage as a
// write-through cache. Line order is insertion order, preserved for
// display; it does not affect totals.
type Store struct {
	storage *localstore.Store
	logger  *zap.Logger

	mu    sync.RWMutex
	lines []Line
	subs  []func()
}

// New hydrates the cart from storage. Corrupt or unparsable persisted data
// hydrates as an empty cart; the error is logged, never surfaced.
func New(storage *localstore.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	var lines []Line
	if _, err := s.storage.Get(localstore.KeyCartItems, &lines); err != nil {
		s.logger.Warn("could not parse persisted cart, starting empty", zap.Error(err))
		lines = nil
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// Add puts one more of product in the cart: an existing line's quantity is
// incremented, otherwise a new line is appended with quantity 1.
func (s *Store) Add(product types.Product) {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == product.ProductID {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, Line{Product: product, Quantity: 1})
	}
	s.mu.Unlock()
	s.persist()
	s.notify()
}

// Remove deletes the line for productID. Removing an absent line is a
// silent no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.persist()
		s.notify()
	}
}

// SetQuantity sets the line's quantity exactly, not incrementally.
// A quantity of 0 or less removes the line.
func (s *Store) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.persist()
		s.notify()
	}
}

// Clear empties all lines unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.persist()
	s.notify()
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Count is the total number of items: the sum of line quantities.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Total is the cart value: the sum of price x quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, l := range s.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

// Subscribe registers a callback fired after every cart mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Rehydrate re-reads persisted lines after a foreign storage change.
func (s *Store) Rehydrate() {
	s.hydrate()
	s.notify()
}

func (s *Store) persist() {
	s.mu.RLock()
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	s.mu.RUnlock()
	if err := s.storage.Set(localstore.KeyCartItems, lines); err != nil {
		s.logger.Warn("could not persist cart", zap.Error(err))
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}
