package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ecobazaar/internal/types"
)

func fixture() []types.Product {
	return []types.Product{
		{ProductID: 1, Name: "Bamboo Toothbrush", Description: "plastic-free brush", Category: "Personal Care", Price: 149, CarbonEmission: 0.2, IsZeroWaste: true, IsActive: true, CreatedAt: "2026-03-01T10:00:00"},
		{ProductID: 2, Name: "Jute Bag", Description: "tote for groceries", Category: "Bags", Price: 299, CarbonEmission: 0.4, IsActive: true, CreatedAt: "2026-05-20T10:00:00"},
		{ProductID: 3, Name: "Steel Straw", Description: "reusable straw set", Category: "Kitchen", Price: 99, CarbonEmission: 0.9, IsZeroWaste: true, IsActive: true, CreatedAt: "2026-01-15T10:00:00"},
		{ProductID: 4, Name: "Old Lamp", Description: "delisted", Category: "Decor", Price: 499, IsActive: false, CreatedAt: "2025-12-01T10:00:00"},
	}
}

func ids(products []types.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ProductID)
	}
	return out
}

func TestFilterDropsDelisted(t *testing.T) {
	got := Filter{}.Apply(fixture())
	if diff := cmp.Diff([]int64{1, 2, 3}, ids(got)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterConstraints(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"category is case-insensitive", Filter{Category: "bags"}, []int64{2}},
		{"max price", Filter{MaxPrice: 150}, []int64{1, 3}},
		{"zero waste only", Filter{ZeroWasteOnly: true}, []int64{1, 3}},
		{"search matches name", Filter{Search: "jute"}, []int64{2}},
		{"search matches description", Filter{Search: "REUSABLE"}, []int64{3}},
		{"combined", Filter{ZeroWasteOnly: true, MaxPrice: 100}, []int64{3}},
		{"no match", Filter{Category: "Toys"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(tc.filter.Apply(fixture()))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortProducts(t *testing.T) {
	cases := []struct {
		order string
		want  []int64
	}{
		{SortPriceAsc, []int64{3, 1, 2, 4}},
		{SortPriceDesc, []int64{4, 2, 1, 3}},
		{SortCarbon, []int64{4, 1, 2, 3}},
		{SortNewest, []int64{2, 1, 3, 4}},
		{"", []int64{1, 2, 3, 4}},
		{"bogus", []int64{1, 2, 3, 4}},
	}
	for _, tc := range cases {
		t.Run(tc.order, func(t *testing.T) {
			products := fixture()
			SortProducts(products, tc.order)
			if diff := cmp.Diff(tc.want, ids(products)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	got := Categories(fixture())
	want := []string{"Bags", "Decor", "Kitchen", "Personal Care"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
}

type countingFetcher struct {
	calls   atomic.Int64
	release chan struct{}
}

func (f *countingFetcher) Products(ctx context.Context) ([]types.Product, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return fixture(), nil
}

func TestServiceCollapsesConcurrentFetches(t *testing.T) {
	fetcher := &countingFetcher{release: make(chan struct{})}
	svc := NewService(fetcher)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]types.Product, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			products, err := svc.Products(context.Background())
			if err != nil {
				t.Errorf("products: %v", err)
				return
			}
			results[i] = products
		}(i)
	}
	// Let the callers pile onto the single in-flight request before it
	// completes.
	time.Sleep(100 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("backend called %d times, want 1", got)
	}
	for i := range results {
		if len(results[i]) != len(fixture()) {
			t.Fatalf("caller %d got %d products", i, len(results[i]))
		}
	}
}

type failingFetcher struct{}

func (failingFetcher) Products(ctx context.Context) ([]types.Product, error) {
	return nil, errors.New("backend down")
}

func TestServicePropagatesFetchError(t *testing.T) {
	svc := NewService(failingFetcher{})
	if _, err := svc.Products(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
