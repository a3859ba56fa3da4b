package api

import (
	"context"
	"fmt"
	"net/http"

	"ecobazaar/internal/types"
)

// AdminOverview fetches the admin landing-page KPIs.
func (c *Client) AdminOverview(ctx context.Context) (types.AdminOverviewStats, error) {
	var stats types.AdminOverviewStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/overview", nil, &stats); err != nil {
		return types.AdminOverviewStats{}, err
	}
	return stats, nil
}

// AdminUsers lists all registered buyers.
func (c *Client) AdminUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminDeleteUser removes a buyer account.
func (c *Client) AdminDeleteUser(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", userID), nil, nil)
}

// AdminSellers lists all sellers with their approval status.
func (c *Client) AdminSellers(ctx context.Context) ([]types.SellerAdminView, error) {
	var sellers []types.SellerAdminView
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/sellers", nil, &sellers); err != nil {
		return nil, err
	}
	return sellers, nil
}

// AdminUpdateSellerStatus moves a seller between PENDING, ACTIVE, and
// SUSPENDED.
func (c *Client) AdminUpdateSellerStatus(ctx context.Context, sellerID int64, newStatus string) error {
	endpoint := fmt.Sprintf("/api/admin/sellers/%d/status", sellerID)
	payload := map[string]string{"newStatus": newStatus}
	return c.doJSON(ctx, http.MethodPut, endpoint, payload, nil)
}

// AdminDeleteSeller removes a seller account.
func (c *Client) AdminDeleteSeller(ctx context.Context, sellerID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/sellers/%d", sellerID), nil, nil)
}

// AdminProducts lists the full marketplace catalogue with seller names.
func (c *Client) AdminProducts(ctx context.Context) ([]types.ProductAdminView, error) {
	var products []types.ProductAdminView
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AdminDeleteProduct removes a product from the marketplace.
func (c *Client) AdminDeleteProduct(ctx context.Context, productID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", productID), nil, nil)
}

// AdminCarbonReport fetches the marketplace-wide carbon report.
func (c *Client) AdminCarbonReport(ctx context.Context) (types.AdminCarbonReport, error) {
	var report types.AdminCarbonReport
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/stats/carbon-report", nil, &report); err != nil {
		return types.AdminCarbonReport{}, err
	}
	return report, nil
}
