package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ecobazaar/internal/types"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, tokens TokenSource, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL}, tokens, nil)
}

func TestLoginHitsRoleEndpoint(t *testing.T) {
	var gotPath, gotBody string
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"token":"abc.def.ghi","role":"SELLER","email":"s@example.com","status":"PENDING"}`)
	})

	resp, err := c.Login(context.Background(), types.RoleSeller, "s@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotPath != "/auth/login/seller" {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(gotBody, `"email":"s@example.com"`) {
		t.Fatalf("body = %q", gotBody)
	}
	if resp.Token != "abc.def.ghi" || resp.Status != "PENDING" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestLoginUnknownRole(t *testing.T) {
	c := New(DefaultConfig(), nil, nil)
	if _, err := c.Login(context.Background(), "SUPERUSER", "a@b.c", "pw"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestLoginRejectsMissingToken(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"role":"BUYER"}`)
	})
	if _, err := c.Login(context.Background(), types.RoleBuyer, "a@b.c", "pw"); err == nil {
		t.Fatal("expected error for token-less login response")
	}
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, staticToken("tok-123"), func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	})

	if _, err := c.Products(context.Background()); err != nil {
		t.Fatalf("products: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestAnonymousSendsNoAuthHeader(t *testing.T) {
	var gotAuth string
	hasHeader := false
	c := newTestClient(t, staticToken(""), func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasHeader = r.Header["Authorization"]
		io.WriteString(w, `[]`)
	})

	if _, err := c.Products(context.Background()); err != nil {
		t.Fatalf("products: %v", err)
	}
	if hasHeader {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestUnauthorizedIsMatchable(t *testing.T) {
	c := newTestClient(t, staticToken("stale"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"token expired"}`)
	})

	_, err := c.MyOrders(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized match", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Message != "token expired" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestErrorMessageFallsBackToErrorField(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error":"email already registered"}`)
	})

	err := c.SignupBuyer(context.Background(), BuyerSignup{Username: "a", Email: "a@b.c", Password: "pw"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "email already registered" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("409 must not match ErrUnauthorized")
	}
}

func TestMalformedResponseRejected(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not":"an array"`)
	})

	if _, err := c.Products(context.Background()); err == nil {
		t.Fatal("expected decode error for malformed body")
	}
}

func TestPlaceOrderPayload(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c := newTestClient(t, staticToken("tok"), func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		io.WriteString(w, `{"orderId":7,"status":"PENDING","totalPrice":597}`)
	})

	order, err := c.PlaceOrder(context.Background(), types.OrderRequest{
		OrderItems:      []types.OrderRequestItem{{ProductID: 1, Quantity: 2}},
		ShippingAddress: types.Address{FirstName: "Asha", LastName: "Rao"},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/orders" {
		t.Fatalf("%s %s", gotMethod, gotPath)
	}
	if !strings.Contains(gotBody, `"productId":1`) || !strings.Contains(gotBody, `"quantity":2`) {
		t.Fatalf("body = %q", gotBody)
	}
	if order.OrderID != 7 {
		t.Fatalf("order id = %d", order.OrderID)
	}
}

func TestCancelOrderUsesPatch(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, staticToken("tok"), func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		io.WriteString(w, `{"orderId":7,"status":"CANCELLED"}`)
	})

	order, err := c.CancelOrder(context.Background(), 7)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/orders/7/cancel" {
		t.Fatalf("%s %s", gotMethod, gotPath)
	}
	if order.Status != "CANCELLED" {
		t.Fatalf("status = %q", order.Status)
	}
}

func TestAddProductMultipart(t *testing.T) {
	var gotContentType string
	var gotFields map[string]string
	var gotImage []byte
	c := newTestClient(t, staticToken("tok"), func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			t.Errorf("image part: %v", err)
		} else {
			gotImage, _ = io.ReadAll(file)
			file.Close()
		}
		io.WriteString(w, `{"productId":9,"name":"Jute Bag"}`)
	})

	name, category := "Jute Bag", "Bags"
	price := 299.0
	stock := 10
	carbon := 0.4
	zeroWaste := true
	product, err := c.AddProduct(context.Background(), ProductForm{
		Name:           &name,
		Price:          &price,
		Stock:          &stock,
		CarbonEmission: &carbon,
		Category:       &category,
		IsZeroWaste:    &zeroWaste,
		ImageName:      "bag.jpg",
		Image:          strings.NewReader("jpegbytes"),
	})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotFields["name"] != "Jute Bag" || gotFields["price"] != "299" || gotFields["isZeroWasteProduct"] != "true" {
		t.Fatalf("fields = %v", gotFields)
	}
	if string(gotImage) != "jpegbytes" {
		t.Fatalf("image = %q", gotImage)
	}
	if product.ProductID != 9 {
		t.Fatalf("product id = %d", product.ProductID)
	}
}

func TestUpdateProductOmitsUnsetFields(t *testing.T) {
	var gotFields map[string][]string
	c := newTestClient(t, staticToken("tok"), func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotFields = r.MultipartForm.Value
		io.WriteString(w, `{"productId":9}`)
	})

	price := 349.0
	if _, err := c.UpdateProduct(context.Background(), 9, ProductForm{Price: &price}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(gotFields) != 1 || gotFields["price"][0] != "349" {
		t.Fatalf("fields = %v", gotFields)
	}
}

func TestImageURL(t *testing.T) {
	c := New(Config{BaseURL: "http://backend:8081"}, nil, nil)

	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"uploads/bag.jpg", "http://backend:8081/uploads/bag.jpg"},
		{`C:\ecobazaar\uploads\bag.jpg`, "http://backend:8081/uploads/bag.jpg"},
		{"/srv/app/uploads/bag.jpg", "http://backend:8081/uploads/bag.jpg"},
	}
	for _, tc := range cases {
		if got := c.ImageURL(tc.in); got != tc.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSellerCarbonInsightDateRange(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, staticToken("tok"), func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"sellerEmail":"s@example.com"}`)
	})

	if _, err := c.SellerCarbonInsight(context.Background(), "2026-01-01", "2026-06-30"); err != nil {
		t.Fatalf("insight: %v", err)
	}
	if !strings.Contains(gotQuery, "startDate=2026-01-01") || !strings.Contains(gotQuery, "endDate=2026-06-30") {
		t.Fatalf("query = %q", gotQuery)
	}
}
