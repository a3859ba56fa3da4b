package cart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ecobazaar/internal/localstore"
	"ecobazaar/internal/types"
)

func newTestStore(t *testing.T) (*Store, *localstore.Store) {
	t.Helper()
	storage, err := localstore.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	return New(storage, nil), storage
}

func product(id int64, name string, price float64) types.Product {
	return types.Product{ProductID: id, Name: name, Price: price, IsActive: true}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	s, _ := newTestStore(t)

	p := product(1, "Bamboo Toothbrush", 149)
	s.Add(p)
	s.Add(p)

	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
}

func TestCountAndTotal(t *testing.T) {
	s, _ := newTestStore(t)

	s.Add(product(1, "Bamboo Toothbrush", 10.99))
	s.Add(product(1, "Bamboo Toothbrush", 10.99))
	s.Add(product(2, "Jute Bag", 23.99))

	if got := s.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
	if got := s.Total(); got != 45.97 {
		t.Fatalf("Total() = %v, want 45.97", got)
	}
}

func TestSetQuantityIsExact(t *testing.T) {
	s, _ := newTestStore(t)

	s.Add(product(1, "Bamboo Toothbrush", 149))
	s.SetQuantity(1, 5)

	if got := s.Lines()[0].Quantity; got != 5 {
		t.Fatalf("quantity = %d, want 5", got)
	}

	// Zero removes the line.
	s.SetQuantity(1, 0)
	if !s.IsEmpty() {
		t.Fatal("expected empty cart after SetQuantity(1, 0)")
	}
}

func TestSetQuantityUnknownProductIsNoop(t *testing.T) {
	s, _ := newTestStore(t)

	s.Add(product(1, "Bamboo Toothbrush", 149))
	s.SetQuantity(99, 5)

	want := []Line{{Product: product(1, "Bamboo Toothbrush", 149), Quantity: 1}}
	if diff := cmp.Diff(want, s.Lines()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	s.Add(product(1, "Bamboo Toothbrush", 149))
	s.Remove(1)
	s.Remove(1)
	s.Remove(42)

	if !s.IsEmpty() {
		t.Fatal("expected empty cart")
	}
}

func TestLineSnapshotsProductAtAddTime(t *testing.T) {
	s, _ := newTestStore(t)

	p := product(1, "Bamboo Toothbrush", 149)
	s.Add(p)

	// A later catalog price change must not rewrite the cart.
	p.Price = 999
	if got := s.Lines()[0].Price; got != 149 {
		t.Fatalf("snapshot price = %v, want 149", got)
	}
}

func TestPersistsAcrossProcesses(t *testing.T) {
	dir := t.TempDir()
	storage, err := localstore.Open(dir, nil)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}

	first := New(storage, nil)
	first.Add(product(1, "Bamboo Toothbrush", 149))
	first.Add(product(2, "Jute Bag", 299))
	first.SetQuantity(2, 3)

	// A fresh store over the same profile sees the same cart.
	second := New(storage, nil)
	if diff := cmp.Diff(first.Lines(), second.Lines()); diff != "" {
		t.Fatalf("rehydrated lines mismatch (-want +got):\n%s", diff)
	}
	if got := second.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
}

func TestCorruptStorageHydratesEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, localstore.KeyCartItems), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt cart: %v", err)
	}
	storage, err := localstore.Open(dir, nil)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}

	s := New(storage, nil)
	if !s.IsEmpty() {
		t.Fatal("expected empty cart from corrupt storage")
	}
	// The store stays usable.
	s.Add(product(1, "Bamboo Toothbrush", 149))
	if s.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", s.Count())
	}
}

func TestClearPersistsEmptyList(t *testing.T) {
	s, storage := newTestStore(t)

	s.Add(product(1, "Bamboo Toothbrush", 149))
	s.Clear()

	var lines []Line
	ok, err := storage.Get(localstore.KeyCartItems, &lines)
	if err != nil || !ok {
		t.Fatalf("read persisted cart: ok=%v err=%v", ok, err)
	}
	if len(lines) != 0 {
		t.Fatalf("persisted %d lines after clear, want 0", len(lines))
	}
}

func TestSubscribeFiresOnMutation(t *testing.T) {
	s, _ := newTestStore(t)

	fired := 0
	s.Subscribe(func() { fired++ })

	s.Add(product(1, "Bamboo Toothbrush", 149))
	s.SetQuantity(1, 2)
	s.Remove(1)

	if fired != 3 {
		t.Fatalf("subscriber fired %d times, want 3", fired)
	}
}
