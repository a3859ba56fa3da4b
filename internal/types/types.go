// Package types defines the wire-level contract shared with the EcoBazaarX
// backend. Field names and JSON tags mirror the backend DTOs exactly; the
// client validates-or-rejects at the network boundary instead of trusting
// response shapes implicitly.
package types

import "time"

// Role names as issued by the backend token service.
const (
	RoleBuyer  = "BUYER"
	RoleSeller = "SELLER"
	RoleAdmin  = "ADMIN"
)

// Seller approval states persisted under the userStatus storage key.
const (
	SellerStatusActive    = "ACTIVE"
	SellerStatusPending   = "PENDING"
	SellerStatusSuspended = "SUSPENDED"
)

// Seller is the catalog-embedded view of a product's seller.
type Seller struct {
	SellerID     int64  `json:"sellerId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
}

// Product is a catalog entry. Cart lines hold a full snapshot of this
// struct taken at add-time, so later catalog changes never rewrite a cart.
type Product struct {
	ProductID      int64   `json:"productId"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Stock          int     `json:"stock"`
	Category       string  `json:"category"`
	ImagePath      string  `json:"imagePath"`
	CarbonEmission float64 `json:"carbonEmission"`
	Price          float64 `json:"price"`
	CreatedAt      string  `json:"createdAt"`
	IsZeroWaste    bool    `json:"isZeroWasteProduct"`
	IsActive       bool    `json:"isActive"`
	Seller         Seller  `json:"seller"`
}

// Address is the shipping address collected by the checkout wizard.
// Address2 is the only optional field.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// OrderItem is one line of a placed order as reported by the backend.
type OrderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order mirrors the backend OrderDTO. BuyerEmail is only populated on the
// seller-facing order views.
type Order struct {
	OrderID         int64       `json:"orderId"`
	BuyerName       string      `json:"buyerName"`
	BuyerEmail      string      `json:"buyerEmail,omitempty"`
	ShippingAddress Address     `json:"shippingAddress"`
	TotalPrice      float64     `json:"totalPrice"`
	Status          string      `json:"status"`
	CreatedAt       string      `json:"createdAt"`
	OrderItems      []OrderItem `json:"orderItems"`
}

// OrderRequestItem is the productId/quantity pair sent when placing an order.
type OrderRequestItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the payload for POST /api/orders.
type OrderRequest struct {
	OrderItems      []OrderRequestItem `json:"orderItems"`
	ShippingAddress Address            `json:"shippingAddress"`
}

// InventoryProduct is one row of the seller inventory view.
type InventoryProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// DashboardStats is the seller dashboard KPI block.
type DashboardStats struct {
	TotalRevenue                 float64          `json:"totalRevenue"`
	TotalOrders                  int64            `json:"totalOrders"`
	AverageOrderValue            float64          `json:"averageOrderValue"`
	TotalCarbonSaved             float64          `json:"totalCarbonSaved"`
	ProductsByCategory           map[string]int64 `json:"productsByCategory"`
	TotalProducts                int64            `json:"totalProducts"`
	EcoFriendlyProductPercentage float64          `json:"ecoFriendlyProductPercentage"`
}

// SellerCarbonReport is the per-seller carbon insight report.
type SellerCarbonReport struct {
	SellerEmail            string             `json:"sellerEmail"`
	TotalProducts          int                `json:"totalProducts"`
	TotalCarbonEmission    float64            `json:"totalCarbonEmission"`
	AvgCarbonEmission      float64            `json:"avgCarbonEmission"`
	HighestEmissionProduct string             `json:"highestEmissionProduct"`
	LowestEmissionProduct  string             `json:"lowestEmissionProduct"`
	CategoryWiseCarbon     map[string]float64 `json:"categoryWiseCarbon"`
	StockAdjustedCarbon    float64            `json:"stockAdjustedCarbon"`
}

// CarbonCalculationRequest feeds the footprint calculator. Weight is grams.
type CarbonCalculationRequest struct {
	Material  string  `json:"material"`
	Weight    float64 `json:"weight"`
	Origin    string  `json:"origin"`
	Packaging string  `json:"packaging"`
}

// CarbonCalculationResponse is the calculator result.
type CarbonCalculationResponse struct {
	CarbonEmission float64 `json:"carbonEmission"`
}

// User is the admin view of a registered buyer.
type User struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// SellerAdminView is the admin seller-management row.
type SellerAdminView struct {
	SellerID         int64  `json:"sellerId"`
	Email            string `json:"email"`
	BusinessName     string `json:"businessName"`
	RegistrationDate string `json:"registrationDate"`
	Status           string `json:"status"`
}

// ProductAdminView is the admin product-catalogue row.
type ProductAdminView struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	Stock              int     `json:"stock"`
	CarbonEmission     float64 `json:"carbonEmission"`
	SellerBusinessName string  `json:"sellerBusinessName"`
}

// AdminOverviewStats is the admin landing-page KPI block.
type AdminOverviewStats struct {
	TotalUsers                   int64            `json:"totalUsers"`
	UserGrowthPercentage         float64          `json:"userGrowthPercentage"`
	TotalOrdersLast30Days        int64            `json:"totalOrdersLast30Days"`
	OrderGrowthPercentage        float64          `json:"orderGrowthPercentage"`
	TotalFootprintLast30Days     float64          `json:"totalFootprintLast30Days"`
	FootprintGrowthPercentage    float64          `json:"footprintGrowthPercentage"`
	TotalProducts                int64            `json:"totalProducts"`
	ProductsByCategory           map[string]int64 `json:"productsByCategory"`
	EcoFriendlyProductPercentage float64          `json:"ecoFriendlyProductPercentage"`
}

// SellerLeaderboardEntry ranks sellers by footprint on the admin report.
type SellerLeaderboardEntry struct {
	SellerName              string  `json:"sellerName"`
	AverageFootprint        float64 `json:"averageFootprint"`
	TotalInventoryFootprint float64 `json:"totalInventoryFootprint"`
	ProductCount            int64   `json:"productCount"`
}

// AdminCarbonReport is the marketplace-wide carbon report.
type AdminCarbonReport struct {
	TotalMarketplaceFootprint float64                  `json:"totalMarketplaceFootprint"`
	PlatformAverageFootprint  float64                  `json:"platformAverageFootprint"`
	LowImpactProductCount     int64                    `json:"lowImpactProductCount"`
	SellerLeaderboard         []SellerLeaderboardEntry `json:"sellerLeaderboard"`
	FootprintByCategory       map[string]float64       `json:"footprintByCategory"`
}

// ParseCreatedAt parses the backend's ISO timestamp. The backend emits
// LocalDateTime without a zone offset, so that layout is tried last.
// Returns the zero time when nothing matches.
func ParseCreatedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
