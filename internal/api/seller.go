package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"ecobazaar/internal/types"
)

// Inventory lists the seller's stock levels.
func (c *Client) Inventory(ctx context.Context) ([]types.InventoryProduct, error) {
	var rows []types.InventoryProduct
	if err := c.doJSON(ctx, http.MethodGet, "/seller/inventory", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MyProducts lists the seller's own catalog entries, active or not.
func (c *Client) MyProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	if err := c.doJSON(ctx, http.MethodGet, "/seller/product/my-products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// TopSellingProducts lists the seller's best sellers, capped at limit.
func (c *Client) TopSellingProducts(ctx context.Context, limit int) ([]types.Product, error) {
	endpoint := "/seller/product/top-selling"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}
	var products []types.Product
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductForm carries the multipart fields for product create/update.
// Nil pointers are omitted, which the update endpoint treats as "leave
// unchanged". Image is optional on update, required on create.
type ProductForm struct {
	Name           *string
	Price          *float64
	Stock          *int
	CarbonEmission *float64
	Description    *string
	Category       *string
	IsZeroWaste    *bool
	ImageName      string
	Image          io.Reader
}

func (f ProductForm) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct {
		name  string
		value *string
	}{
		{"name", f.Name},
		{"description", f.Description},
		{"category", f.Category},
	}
	for _, field := range fields {
		if field.value != nil {
			if err := w.WriteField(field.name, *field.value); err != nil {
				return nil, "", err
			}
		}
	}
	if f.Price != nil {
		if err := w.WriteField("price", strconv.FormatFloat(*f.Price, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if f.Stock != nil {
		if err := w.WriteField("stock", strconv.Itoa(*f.Stock)); err != nil {
			return nil, "", err
		}
	}
	if f.CarbonEmission != nil {
		if err := w.WriteField("carbonEmission", strconv.FormatFloat(*f.CarbonEmission, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if f.IsZeroWaste != nil {
		if err := w.WriteField("isZeroWasteProduct", strconv.FormatBool(*f.IsZeroWaste)); err != nil {
			return nil, "", err
		}
	}
	if f.Image != nil {
		part, err := w.CreateFormFile("image", f.ImageName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Image); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// AddProduct creates a catalog entry from a multipart form, image included.
func (c *Client) AddProduct(ctx context.Context, form ProductForm) (types.Product, error) {
	return c.productForm(ctx, "/seller/product/add", http.MethodPost, form)
}

// UpdateProduct updates an existing entry; only the form's non-nil fields
// are sent and changed.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, form ProductForm) (types.Product, error) {
	endpoint := fmt.Sprintf("/seller/product/update/%d", productID)
	return c.productForm(ctx, endpoint, http.MethodPut, form)
}

func (c *Client) productForm(ctx context.Context, endpoint, method string, form ProductForm) (types.Product, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return types.Product{}, fmt.Errorf("encode product form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return types.Product{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	var product types.Product
	if err := c.send(req, &product); err != nil {
		return types.Product{}, err
	}
	return product, nil
}

// ToggleProductActive flips a product between listed and delisted.
func (c *Client) ToggleProductActive(ctx context.Context, productID int64) (types.Product, error) {
	var product types.Product
	endpoint := fmt.Sprintf("/seller/product/toggle-active/%d", productID)
	if err := c.doJSON(ctx, http.MethodPut, endpoint, nil, &product); err != nil {
		return types.Product{}, err
	}
	return product, nil
}

// SellerOrders lists open orders containing the seller's products.
func (c *Client) SellerOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/seller/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SellerOrderHistory lists the seller's delivered and cancelled orders.
func (c *Client) SellerOrderHistory(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/seller/orders/history", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to newStatus (e.g. SHIPPED, DELIVERED).
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, newStatus string) (types.Order, error) {
	var order types.Order
	endpoint := fmt.Sprintf("/api/seller/orders/%d/status", orderID)
	payload := map[string]string{"newStatus": newStatus}
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, payload, &order); err != nil {
		return types.Order{}, err
	}
	return order, nil
}

// SellerDashboardStats fetches the seller dashboard KPI block.
func (c *Client) SellerDashboardStats(ctx context.Context) (types.DashboardStats, error) {
	var stats types.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/seller/stats/dashboard", nil, &stats); err != nil {
		return types.DashboardStats{}, err
	}
	return stats, nil
}

// SellerCarbonInsight fetches the seller's carbon report, optionally
// bounded to a date range (YYYY-MM-DD).
func (c *Client) SellerCarbonInsight(ctx context.Context, startDate, endDate string) (types.SellerCarbonReport, error) {
	endpoint := "/seller/report/carbon-insight"
	if startDate != "" && endDate != "" {
		q := url.Values{}
		q.Set("startDate", startDate)
		q.Set("endDate", endDate)
		endpoint += "?" + q.Encode()
	}
	var report types.SellerCarbonReport
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &report); err != nil {
		return types.SellerCarbonReport{}, err
	}
	return report, nil
}
