package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"ecobazaar/cmd/ecobazaar/ui"
	"ecobazaar/internal/api"
	"ecobazaar/internal/types"
)

var (
	sellerTopLimit    int
	sellerReportStart string
	sellerReportEnd   string

	addProductName        string
	addProductPrice       float64
	addProductStock       int
	addProductCarbon      float64
	addProductDescription string
	addProductCategory    string
	addProductZeroWaste   bool
	addProductImage       string

	calcMaterial  string
	calcWeight    float64
	calcOrigin    string
	calcPackaging string
)

var sellerCmd = &cobra.Command{
	Use:   "seller",
	Short: "Seller console: inventory, products, orders, carbon reports",
	Long: `Management commands for seller accounts. All of them require the
SELLER role; most also require an ACTIVE approval status, the same gate
the seller dashboard applies.`,
}

var sellerDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show revenue, order, and carbon KPIs",
	RunE:  sellerGated(runSellerDashboard),
}

var sellerInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List stock levels",
	RunE:  sellerGated(runSellerInventory),
}

var sellerProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List your products, active or not",
	RunE:  sellerGated(runSellerProducts),
}

var sellerOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List incoming orders",
	RunE:  sellerGated(runSellerOrders),
}

var sellerHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List delivered and cancelled orders",
	RunE:  sellerGated(runSellerHistory),
}

var sellerSetStatusCmd = &cobra.Command{
	Use:   "set-status [order-id] [status]",
	Short: "Move an order to a new status (e.g. SHIPPED, DELIVERED)",
	Args:  cobra.ExactArgs(2),
	RunE:  sellerGated(runSellerSetStatus),
}

var sellerTopSellingCmd = &cobra.Command{
	Use:   "top-selling",
	Short: "List your best-selling products",
	RunE:  sellerGated(runSellerTopSelling),
}

var sellerCarbonReportCmd = &cobra.Command{
	Use:   "carbon-report",
	Short: "Show your carbon insight report",
	RunE:  sellerGated(runSellerCarbonReport),
}

var sellerCalculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Estimate a product's carbon footprint",
	RunE:  sellerGated(runSellerCalculate),
}

var sellerAddProductCmd = &cobra.Command{
	Use:   "add-product",
	Short: "List a new product, image included",
	RunE:  sellerGated(runSellerAddProduct),
}

var sellerUpdateProductCmd = &cobra.Command{
	Use:   "update-product [product-id]",
	Short: "Change a product; only the flags you pass are updated",
	Args:  cobra.ExactArgs(1),
	RunE:  sellerGated(runSellerUpdateProduct),
}

var sellerToggleActiveCmd = &cobra.Command{
	Use:   "toggle-active [product-id]",
	Short: "List or delist a product",
	Args:  cobra.ExactArgs(1),
	RunE:  sellerGated(runSellerToggleActive),
}

func init() {
	sellerTopSellingCmd.Flags().IntVar(&sellerTopLimit, "limit", 5, "How many products to show")
	sellerCarbonReportCmd.Flags().StringVar(&sellerReportStart, "start", "", "Range start (YYYY-MM-DD)")
	sellerCarbonReportCmd.Flags().StringVar(&sellerReportEnd, "end", "", "Range end (YYYY-MM-DD)")

	sellerAddProductCmd.Flags().StringVar(&addProductName, "name", "", "Product name")
	sellerAddProductCmd.Flags().Float64Var(&addProductPrice, "price", 0, "Price")
	sellerAddProductCmd.Flags().IntVar(&addProductStock, "stock", 0, "Initial stock")
	sellerAddProductCmd.Flags().Float64Var(&addProductCarbon, "carbon", 0, "Carbon footprint in kg CO2e")
	sellerAddProductCmd.Flags().StringVar(&addProductDescription, "description", "", "Product description")
	sellerAddProductCmd.Flags().StringVar(&addProductCategory, "category", "", "Category")
	sellerAddProductCmd.Flags().BoolVar(&addProductZeroWaste, "zero-waste", false, "Mark as zero-waste")
	sellerAddProductCmd.Flags().StringVar(&addProductImage, "image", "", "Path to the product image")
	sellerAddProductCmd.MarkFlagRequired("name")
	sellerAddProductCmd.MarkFlagRequired("price")
	sellerAddProductCmd.MarkFlagRequired("image")

	sellerUpdateProductCmd.Flags().StringVar(&addProductName, "name", "", "Product name")
	sellerUpdateProductCmd.Flags().Float64Var(&addProductPrice, "price", 0, "Price")
	sellerUpdateProductCmd.Flags().IntVar(&addProductStock, "stock", 0, "Stock")
	sellerUpdateProductCmd.Flags().Float64Var(&addProductCarbon, "carbon", 0, "Carbon footprint in kg CO2e")
	sellerUpdateProductCmd.Flags().StringVar(&addProductDescription, "description", "", "Product description")
	sellerUpdateProductCmd.Flags().StringVar(&addProductCategory, "category", "", "Category")
	sellerUpdateProductCmd.Flags().BoolVar(&addProductZeroWaste, "zero-waste", false, "Mark as zero-waste")
	sellerUpdateProductCmd.Flags().StringVar(&addProductImage, "image", "", "Path to a replacement image")

	sellerCalculateCmd.Flags().StringVar(&calcMaterial, "material", "", "Primary material")
	sellerCalculateCmd.Flags().Float64Var(&calcWeight, "weight", 0, "Weight in grams")
	sellerCalculateCmd.Flags().StringVar(&calcOrigin, "origin", "", "Country or region of origin")
	sellerCalculateCmd.Flags().StringVar(&calcPackaging, "packaging", "", "Packaging type")
	sellerCalculateCmd.MarkFlagRequired("material")
	sellerCalculateCmd.MarkFlagRequired("weight")

	sellerCmd.AddCommand(sellerDashboardCmd)
	sellerCmd.AddCommand(sellerInventoryCmd)
	sellerCmd.AddCommand(sellerProductsCmd)
	sellerCmd.AddCommand(sellerOrdersCmd)
	sellerCmd.AddCommand(sellerHistoryCmd)
	sellerCmd.AddCommand(sellerSetStatusCmd)
	sellerCmd.AddCommand(sellerTopSellingCmd)
	sellerCmd.AddCommand(sellerCarbonReportCmd)
	sellerCmd.AddCommand(sellerCalculateCmd)
	sellerCmd.AddCommand(sellerAddProductCmd)
	sellerCmd.AddCommand(sellerUpdateProductCmd)
	sellerCmd.AddCommand(sellerToggleActiveCmd)
}

// sellerGated wraps a seller command with the role and approval-status
// gate the dashboard layout enforces: PENDING and SUSPENDED sellers can
// sign in but go no further.
func sellerGated(run func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRole(types.RoleSeller); err != nil {
			return err
		}
		switch a.sessions.UserStatus() {
		case types.SellerStatusActive:
		case types.SellerStatusSuspended:
			return fmt.Errorf("seller account is suspended; contact the marketplace admin")
		default:
			return fmt.Errorf("seller account is pending approval")
		}
		return run(a, cmd, args)
	}
}

func runSellerDashboard(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	stats, err := a.client.SellerDashboardStats(ctx)
	if err != nil {
		return a.surface(err)
	}

	fmt.Printf("Revenue:            ₹%.2f\n", stats.TotalRevenue)
	fmt.Printf("Orders:             %d\n", stats.TotalOrders)
	fmt.Printf("Avg order value:    ₹%.2f\n", stats.AverageOrderValue)
	fmt.Printf("Carbon saved:       %.2f kg CO2e\n", stats.TotalCarbonSaved)
	fmt.Printf("Products listed:    %d\n", stats.TotalProducts)
	fmt.Printf("Eco-friendly share: %.1f%%\n", stats.EcoFriendlyProductPercentage)
	if len(stats.ProductsByCategory) > 0 {
		table := ui.NewTable("Products by category", []string{"Category", "Count"})
		for _, cat := range sortedKeys(stats.ProductsByCategory) {
			table.AddRow(cat, strconv.FormatInt(stats.ProductsByCategory[cat], 10))
		}
		fmt.Print(table.View(ui.DefaultStyles()))
	}
	return nil
}

func runSellerInventory(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	rows, err := a.client.Inventory(ctx)
	if err != nil {
		return a.surface(err)
	}
	table := ui.NewTable("Inventory", []string{"ID", "Name", "Stock"})
	for _, r := range rows {
		table.AddRow(strconv.FormatInt(r.ID, 10), r.Name, strconv.Itoa(r.Stock))
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	return nil
}

func runSellerProducts(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	products, err := a.client.MyProducts(ctx)
	if err != nil {
		return a.surface(err)
	}
	table := ui.NewTable("My Products", []string{"ID", "Name", "Category", "Price", "Stock", "CO2e (kg)", "Listed"})
	for _, p := range products {
		listed := "yes"
		if !p.IsActive {
			listed = "no"
		}
		table.AddRow(
			strconv.FormatInt(p.ProductID, 10),
			p.Name,
			p.Category,
			fmt.Sprintf("₹%.2f", p.Price),
			strconv.Itoa(p.Stock),
			fmt.Sprintf("%.2f", p.CarbonEmission),
			listed,
		)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	return nil
}

func runSellerOrders(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	orders, err := a.client.SellerOrders(ctx)
	if err != nil {
		return a.surface(err)
	}
	if len(orders) == 0 {
		fmt.Println("No incoming orders.")
		return nil
	}
	printOrders("Incoming Orders", orders, true)
	return nil
}

func runSellerHistory(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	orders, err := a.client.SellerOrderHistory(ctx)
	if err != nil {
		return a.surface(err)
	}
	if len(orders) == 0 {
		fmt.Println("No completed orders yet.")
		return nil
	}
	printOrders("Order History", orders, true)
	return nil
}

func runSellerSetStatus(a *app, cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	order, err := a.client.UpdateOrderStatus(ctx, id, args[1])
	if err != nil {
		return a.surface(fmt.Errorf("could not update order %d: %w", id, err))
	}
	fmt.Printf("Order %d is now %s.\n", order.OrderID, order.Status)
	return nil
}

func runSellerTopSelling(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	products, err := a.client.TopSellingProducts(ctx, sellerTopLimit)
	if err != nil {
		return a.surface(err)
	}
	table := ui.NewTable("Top Selling", []string{"ID", "Name", "Price", "Stock"})
	for _, p := range products {
		table.AddRow(
			strconv.FormatInt(p.ProductID, 10),
			p.Name,
			fmt.Sprintf("₹%.2f", p.Price),
			strconv.Itoa(p.Stock),
		)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	return nil
}

func runSellerCarbonReport(a *app, cmd *cobra.Command, args []string) error {
	if (sellerReportStart == "") != (sellerReportEnd == "") {
		return fmt.Errorf("--start and --end must be given together")
	}

	ctx, cancel := a.ctx()
	defer cancel()

	report, err := a.client.SellerCarbonInsight(ctx, sellerReportStart, sellerReportEnd)
	if err != nil {
		return a.surface(err)
	}

	fmt.Printf("Carbon report for %s\n\n", report.SellerEmail)
	fmt.Printf("Products:              %d\n", report.TotalProducts)
	fmt.Printf("Total emission:        %.2f kg CO2e\n", report.TotalCarbonEmission)
	fmt.Printf("Average per product:   %.2f kg CO2e\n", report.AvgCarbonEmission)
	fmt.Printf("Stock-adjusted total:  %.2f kg CO2e\n", report.StockAdjustedCarbon)
	fmt.Printf("Highest emitter:       %s\n", report.HighestEmissionProduct)
	fmt.Printf("Lowest emitter:        %s\n", report.LowestEmissionProduct)
	if len(report.CategoryWiseCarbon) > 0 {
		table := ui.NewTable("Emission by category", []string{"Category", "kg CO2e"})
		for _, cat := range sortedKeys(report.CategoryWiseCarbon) {
			table.AddRow(cat, fmt.Sprintf("%.2f", report.CategoryWiseCarbon[cat]))
		}
		fmt.Print(table.View(ui.DefaultStyles()))
	}
	return nil
}

func runSellerCalculate(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	resp, err := a.client.CalculateCarbon(ctx, types.CarbonCalculationRequest{
		Material:  calcMaterial,
		Weight:    calcWeight,
		Origin:    calcOrigin,
		Packaging: calcPackaging,
	})
	if err != nil {
		return a.surface(err)
	}
	fmt.Printf("Estimated footprint: %.2f kg CO2e\n", resp.CarbonEmission)
	return nil
}

func runSellerAddProduct(a *app, cmd *cobra.Command, args []string) error {
	img, err := os.Open(addProductImage)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer img.Close()

	ctx, cancel := a.ctx()
	defer cancel()

	product, err := a.client.AddProduct(ctx, api.ProductForm{
		Name:           &addProductName,
		Price:          &addProductPrice,
		Stock:          &addProductStock,
		CarbonEmission: &addProductCarbon,
		Description:    &addProductDescription,
		Category:       &addProductCategory,
		IsZeroWaste:    &addProductZeroWaste,
		ImageName:      filepath.Base(addProductImage),
		Image:          img,
	})
	if err != nil {
		return a.surface(fmt.Errorf("could not add product: %w", err))
	}
	fmt.Printf("Listed %s as product %d.\n", product.Name, product.ProductID)
	return nil
}

func runSellerUpdateProduct(a *app, cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	// Only flags the user actually set are sent; everything else stays
	// as-is on the server.
	var form api.ProductForm
	flags := cmd.Flags()
	if flags.Changed("name") {
		form.Name = &addProductName
	}
	if flags.Changed("price") {
		form.Price = &addProductPrice
	}
	if flags.Changed("stock") {
		form.Stock = &addProductStock
	}
	if flags.Changed("carbon") {
		form.CarbonEmission = &addProductCarbon
	}
	if flags.Changed("description") {
		form.Description = &addProductDescription
	}
	if flags.Changed("category") {
		form.Category = &addProductCategory
	}
	if flags.Changed("zero-waste") {
		form.IsZeroWaste = &addProductZeroWaste
	}
	if addProductImage != "" {
		img, err := os.Open(addProductImage)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer img.Close()
		form.ImageName = filepath.Base(addProductImage)
		form.Image = img
	}

	ctx, cancel := a.ctx()
	defer cancel()

	product, err := a.client.UpdateProduct(ctx, id, form)
	if err != nil {
		return a.surface(fmt.Errorf("could not update product %d: %w", id, err))
	}
	fmt.Printf("Updated %s (product %d).\n", product.Name, product.ProductID)
	return nil
}

func runSellerToggleActive(a *app, cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	product, err := a.client.ToggleProductActive(ctx, id)
	if err != nil {
		return a.surface(err)
	}
	state := "delisted"
	if product.IsActive {
		state = "listed"
	}
	fmt.Printf("%s is now %s.\n", product.Name, state)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
