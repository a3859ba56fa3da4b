package api

import (
	"context"
	"fmt"
	"net/http"

	"ecobazaar/internal/types"
)

// Products fetches the public catalog.
func (c *Client) Products(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// PlaceOrder submits the order. Requires a buyer session; the caller owns
// clearing the cart strictly on success.
func (c *Client) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error) {
	var order types.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return types.Order{}, err
	}
	return order, nil
}

// MyOrders lists the signed-in buyer's orders.
func (c *Client) MyOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/my-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder cancels one of the buyer's own orders.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (types.Order, error) {
	var order types.Order
	endpoint := fmt.Sprintf("/api/orders/%d/cancel", orderID)
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, nil, &order); err != nil {
		return types.Order{}, err
	}
	return order, nil
}

// CalculateCarbon asks the backend's emission calculator to estimate a
// product footprint from material, weight, origin, and packaging.
func (c *Client) CalculateCarbon(ctx context.Context, req types.CarbonCalculationRequest) (types.CarbonCalculationResponse, error) {
	var resp types.CarbonCalculationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/carbon/calculate", req, &resp); err != nil {
		return types.CarbonCalculationResponse{}, err
	}
	return resp, nil
}
