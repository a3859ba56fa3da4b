// Package catalog provides the client-side product list shaping the
// storefront views apply after fetching the public catalog: category,
// price, zero-waste and text filters, plus the sort orders the products
// page offers.
package catalog

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"ecobazaar/internal/types"
)

// Filter narrows a fetched product list. Zero values mean "no constraint".
type Filter struct {
	Category      string
	MaxPrice      float64
	ZeroWasteOnly bool
	Search        string
}

// Apply returns the products matching every set constraint, preserving
// input order. Delisted products are always dropped from the storefront.
func (f Filter) Apply(products []types.Product) []types.Product {
	out := make([]types.Product, 0, len(products))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.ZeroWasteOnly && !p.IsZeroWaste {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders for the products view.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortCarbon    = "carbon"
	SortNewest    = "newest"
)

// SortProducts sorts in place by the named order; unknown orders leave the
// slice untouched. Ties keep their relative order.
func SortProducts(products []types.Product, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortCarbon:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CarbonEmission < products[j].CarbonEmission
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return types.ParseCreatedAt(products[i].CreatedAt).After(types.ParseCreatedAt(products[j].CreatedAt))
		})
	}
}

// Categories returns the distinct categories present, sorted.
func Categories(products []types.Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Fetcher is the catalog endpoint dependency. *api.Client satisfies it.
type Fetcher interface {
	Products(ctx context.Context) ([]types.Product, error)
}

// Service fetches the catalog, collapsing concurrent requests from
// multiple views into one backend call.
type Service struct {
	fetcher Fetcher
	sfg     singleflight.Group
}

// NewService wraps a catalog fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Products fetches the catalog; concurrent callers share one in-flight
// request and its result.
func (s *Service) Products(ctx context.Context) ([]types.Product, error) {
	v, err, _ := s.sfg.Do("products", func() (any, error) {
		return s.fetcher.Products(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.Product), nil
}
