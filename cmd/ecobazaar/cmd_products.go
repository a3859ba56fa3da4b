package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ecobazaar/cmd/ecobazaar/ui"
	"ecobazaar/internal/catalog"
	"ecobazaar/internal/types"
)

var (
	productsCategory  string
	productsMaxPrice  float64
	productsZeroWaste bool
	productsSearch    string
	productsSort      string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the product catalog",
	Long: `Lists the public catalog. Filtering and sorting happen client-side
after the fetch, the same shaping the storefront's product page applies.

Sort orders: price-asc, price-desc, carbon, newest.`,
	RunE: runProducts,
}

var productsShowCmd = &cobra.Command{
	Use:   "show [product-id]",
	Short: "Show one product in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

func init() {
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "Only this category")
	productsCmd.Flags().Float64Var(&productsMaxPrice, "max-price", 0, "Only products at or under this price")
	productsCmd.Flags().BoolVar(&productsZeroWaste, "zero-waste", false, "Only zero-waste products")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "Text search over name and description")
	productsCmd.Flags().StringVar(&productsSort, "sort", "", "Sort order")

	productsCmd.AddCommand(productsShowCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	products, err := a.catalog.Products(ctx)
	if err != nil {
		return a.surface(err)
	}

	filter := catalog.Filter{
		Category:      productsCategory,
		MaxPrice:      productsMaxPrice,
		ZeroWasteOnly: productsZeroWaste,
		Search:        productsSearch,
	}
	products = filter.Apply(products)
	catalog.SortProducts(products, productsSort)

	if len(products) == 0 {
		fmt.Println("No products match.")
		return nil
	}

	table := ui.NewTable("Products", []string{"ID", "Name", "Category", "Price", "CO2e (kg)", "Stock", "Seller"})
	for _, p := range products {
		name := p.Name
		if p.IsZeroWaste {
			name += " ♻"
		}
		table.AddRow(
			strconv.FormatInt(p.ProductID, 10),
			name,
			p.Category,
			fmt.Sprintf("₹%.2f", p.Price),
			fmt.Sprintf("%.2f", p.CarbonEmission),
			strconv.Itoa(p.Stock),
			p.Seller.BusinessName,
		)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	return nil
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	products, err := a.catalog.Products(ctx)
	if err != nil {
		return a.surface(err)
	}
	var found *types.Product
	for i := range products {
		if products[i].ProductID == id {
			found = &products[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("no product with id %d", id)
	}

	detail := productMarkdown(*found, a.client.ImageURL(found.ImagePath))
	rendered, err := ui.Markdown(detail)
	if err != nil {
		// Fall back to the raw markdown rather than losing the detail view.
		fmt.Print(detail)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func productMarkdown(p types.Product, imageURL string) string {
	zeroWaste := "no"
	if p.IsZeroWaste {
		zeroWaste = "yes"
	}
	md := fmt.Sprintf(`# %s

%s

| | |
|---|---|
| Price | ₹%.2f |
| Category | %s |
| Carbon footprint | %.2f kg CO2e |
| Zero waste | %s |
| In stock | %d |
| Seller | %s |
`, p.Name, p.Description, p.Price, p.Category, p.CarbonEmission, zeroWaste, p.Stock, p.Seller.BusinessName)
	if imageURL != "" {
		md += fmt.Sprintf("\nImage: %s\n", imageURL)
	}
	return md
}
