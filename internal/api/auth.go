package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ecobazaar/internal/types"
)

// LoginResponse is the body of POST /auth/login/{user|seller|admin}.
// Status is only populated for sellers.
type LoginResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Login authenticates against the role-specific login endpoint. role is
// one of types.RoleBuyer, RoleSeller, RoleAdmin.
func (c *Client) Login(ctx context.Context, role, email, password string) (LoginResponse, error) {
	endpoint, err := loginEndpoint(role)
	if err != nil {
		return LoginResponse{}, err
	}
	payload := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &resp); err != nil {
		return LoginResponse{}, err
	}
	if resp.Token == "" {
		return LoginResponse{}, fmt.Errorf("login response missing token")
	}
	return resp, nil
}

func loginEndpoint(role string) (string, error) {
	switch strings.ToUpper(role) {
	case types.RoleBuyer:
		return "/auth/login/user", nil
	case types.RoleSeller:
		return "/auth/login/seller", nil
	case types.RoleAdmin:
		return "/auth/login/admin", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

// BuyerSignup is the payload for POST /auth/signup/user.
type BuyerSignup struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SellerSignup is the payload for POST /auth/signup/seller.
type SellerSignup struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
	GSTNumber    string `json:"gstNumber"`
}

// SignupBuyer registers a new buyer account.
func (c *Client) SignupBuyer(ctx context.Context, req BuyerSignup) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/signup/user", req, nil)
}

// SignupSeller registers a new seller account, which starts in PENDING
// status until an admin approves it.
func (c *Client) SignupSeller(ctx context.Context, req SellerSignup) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/signup/seller", req, nil)
}
