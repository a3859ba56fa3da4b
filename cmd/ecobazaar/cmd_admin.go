package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ecobazaar/cmd/ecobazaar/ui"
	"ecobazaar/internal/types"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin console: users, sellers, products, platform reports",
	Long:  `Marketplace administration. Every subcommand requires the ADMIN role.`,
}

var adminOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show platform-wide totals",
	RunE:  adminGated(runAdminOverview),
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered buyers",
	RunE:  adminGated(runAdminUsers),
}

var adminSellersCmd = &cobra.Command{
	Use:   "sellers",
	Short: "List sellers and their approval status",
	RunE:  adminGated(runAdminSellers),
}

var adminSellerStatusCmd = &cobra.Command{
	Use:   "seller-status [seller-id] [status]",
	Short: "Approve, suspend, or reactivate a seller",
	Long:  `Valid statuses: ACTIVE, PENDING, SUSPENDED.`,
	Args:  cobra.ExactArgs(2),
	RunE:  adminGated(runAdminSellerStatus),
}

var adminProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List every product on the platform",
	RunE:  adminGated(runAdminProducts),
}

var adminCarbonReportCmd = &cobra.Command{
	Use:   "carbon-report",
	Short: "Show the platform carbon report and seller leaderboard",
	RunE:  adminGated(runAdminCarbonReport),
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user [user-id]",
	Short: "Delete a buyer account",
	Args:  cobra.ExactArgs(1),
	RunE:  adminGated(runAdminDeleteUser),
}

var adminDeleteSellerCmd = &cobra.Command{
	Use:   "delete-seller [seller-id]",
	Short: "Delete a seller account and its listings",
	Args:  cobra.ExactArgs(1),
	RunE:  adminGated(runAdminDeleteSeller),
}

var adminDeleteProductCmd = &cobra.Command{
	Use:   "delete-product [product-id]",
	Short: "Remove a product from the platform",
	Args:  cobra.ExactArgs(1),
	RunE:  adminGated(runAdminDeleteProduct),
}

func init() {
	adminCmd.AddCommand(adminOverviewCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminSellersCmd)
	adminCmd.AddCommand(adminSellerStatusCmd)
	adminCmd.AddCommand(adminProductsCmd)
	adminCmd.AddCommand(adminCarbonReportCmd)
	adminCmd.AddCommand(adminDeleteUserCmd)
	adminCmd.AddCommand(adminDeleteSellerCmd)
	adminCmd.AddCommand(adminDeleteProductCmd)
}

func adminGated(run func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRole(types.RoleAdmin); err != nil {
			return err
		}
		return run(a, cmd, args)
	}
}

func runAdminOverview(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	stats, err := a.client.AdminOverview(ctx)
	if err != nil {
		return a.surface(err)
	}
	fmt.Printf("Users:               %d (%+.1f%%)\n", stats.TotalUsers, stats.UserGrowthPercentage)
	fmt.Printf("Orders (30 days):    %d (%+.1f%%)\n", stats.TotalOrdersLast30Days, stats.OrderGrowthPercentage)
	fmt.Printf("Footprint (30 days): %.2f kg CO2e (%+.1f%%)\n", stats.TotalFootprintLast30Days, stats.FootprintGrowthPercentage)
	fmt.Printf("Products:            %d\n", stats.TotalProducts)
	fmt.Printf("Eco-friendly share:  %.1f%%\n", stats.EcoFriendlyProductPercentage)
	if len(stats.ProductsByCategory) > 0 {
		table := ui.NewTable("Products by category", []string{"Category", "Count"})
		for _, cat := range sortedKeys(stats.ProductsByCategory) {
			table.AddRow(cat, strconv.FormatInt(stats.ProductsByCategory[cat], 10))
		}
		fmt.Print(table.View(ui.DefaultStyles()))
	}
	return nil
}

func runAdminUsers(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	users, err := a.client.AdminUsers(ctx)
	if err != nil {
		return a.surface(err)
	}
	table := ui.NewTable("Users", []string{"ID", "Username", "Email", "Role"})
	for _, u := range users {
		table.AddRow(strconv.FormatInt(u.UserID, 10), u.Username, u.Email, u.Role)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	return nil
}

func runAdminSellers(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	sellers, err := a.client.AdminSellers(ctx)
	if err != nil {
		return a.surface(err)
	}
	table := ui.NewTable("Sellers", []string{"ID", "Business", "Email", "Registered", "Status"})
	for _, s := range sellers {
		registered := s.RegistrationDate
		if t := types.ParseCreatedAt(s.RegistrationDate); !t.IsZero() {
			registered = t.Format("2006-01-02")
		}
		table.AddRow(
			strconv.FormatInt(s.SellerID, 10),
			s.BusinessName,
			s.Email,
			registered,
			s.Status,
		)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	return nil
}

func runAdminSellerStatus(a *app, cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seller id %q", args[0])
	}
	status := strings.ToUpper(args[1])
	switch status {
	case types.SellerStatusActive, types.SellerStatusPending, types.SellerStatusSuspended:
	default:
		return fmt.Errorf("invalid status %q; expected ACTIVE, PENDING, or SUSPENDED", args[1])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.AdminUpdateSellerStatus(ctx, id, status); err != nil {
		return a.surface(fmt.Errorf("could not update seller %d: %w", id, err))
	}
	fmt.Printf("Seller %d is now %s.\n", id, status)
	return nil
}

func runAdminProducts(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	products, err := a.client.AdminProducts(ctx)
	if err != nil {
		return a.surface(err)
	}
	table := ui.NewTable("All Products", []string{"ID", "Name", "Category", "Price", "Stock", "CO2e (kg)", "Seller"})
	for _, p := range products {
		table.AddRow(
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Category,
			fmt.Sprintf("₹%.2f", p.Price),
			strconv.Itoa(p.Stock),
			fmt.Sprintf("%.2f", p.CarbonEmission),
			p.SellerBusinessName,
		)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	return nil
}

func runAdminCarbonReport(a *app, cmd *cobra.Command, args []string) error {
	ctx, cancel := a.ctx()
	defer cancel()

	report, err := a.client.AdminCarbonReport(ctx)
	if err != nil {
		return a.surface(err)
	}
	fmt.Printf("Marketplace footprint: %.2f kg CO2e\n", report.TotalMarketplaceFootprint)
	fmt.Printf("Platform average:      %.2f kg CO2e per product\n", report.PlatformAverageFootprint)
	fmt.Printf("Low-impact products:   %d\n", report.LowImpactProductCount)
	if len(report.FootprintByCategory) > 0 {
		table := ui.NewTable("Footprint by category", []string{"Category", "kg CO2e"})
		for _, cat := range sortedKeys(report.FootprintByCategory) {
			table.AddRow(cat, fmt.Sprintf("%.2f", report.FootprintByCategory[cat]))
		}
		fmt.Print(table.View(ui.DefaultStyles()))
	}
	if len(report.SellerLeaderboard) > 0 {
		table := ui.NewTable("Seller leaderboard", []string{"Rank", "Seller", "Avg CO2e", "Inventory CO2e", "Products"})
		for i, entry := range report.SellerLeaderboard {
			table.AddRow(
				strconv.Itoa(i+1),
				entry.SellerName,
				fmt.Sprintf("%.2f", entry.AverageFootprint),
				fmt.Sprintf("%.2f", entry.TotalInventoryFootprint),
				strconv.FormatInt(entry.ProductCount, 10),
			)
		}
		fmt.Print(table.View(ui.DefaultStyles()))
	}
	return nil
}

func runAdminDeleteUser(a *app, cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.AdminDeleteUser(ctx, id); err != nil {
		return a.surface(fmt.Errorf("could not delete user %d: %w", id, err))
	}
	fmt.Printf("User %d deleted.\n", id)
	return nil
}

func runAdminDeleteSeller(a *app, cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seller id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.AdminDeleteSeller(ctx, id); err != nil {
		return a.surface(fmt.Errorf("could not delete seller %d: %w", id, err))
	}
	fmt.Printf("Seller %d deleted.\n", id)
	return nil
}

func runAdminDeleteProduct(a *app, cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.AdminDeleteProduct(ctx, id); err != nil {
		return a.surface(fmt.Errorf("could not delete product %d: %w", id, err))
	}
	fmt.Printf("Product %d deleted.\n", id)
	return nil
}
