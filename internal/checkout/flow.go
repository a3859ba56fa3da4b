// Package checkout drives the linear address -> payment -> review ->
// confirmed wizard. The flow is ephemeral: it lives for one checkout
// attempt and is never persisted, so a restart always begins at the
// address step.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ecobazaar/internal/cart"
	"ecobazaar/internal/session"
	"ecobazaar/internal/types"
)

// Step is the wizard position. Steps only advance forward through explicit
// user action; CONFIRMED is reachable solely through a successful order
// placement.
type Step int

const (
	StepAddress Step = iota
	StepPayment
	StepReview
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "ADDRESS"
	case StepPayment:
		return "PAYMENT"
	case StepReview:
		return "REVIEW"
	case StepConfirmed:
		return "CONFIRMED"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Entry guard violations. The caller routes these to the sign-in or
// catalog view instead of entering the wizard.
var (
	ErrNotSignedIn = errors.New("checkout requires a signed-in session")
	ErrEmptyCart   = errors.New("checkout requires a non-empty cart")
)

// Flow step errors.
var (
	ErrFieldsMissing = errors.New("required fields missing")
	ErrNotAtReview   = errors.New("order placement is only valid from the review step")
	ErrAlreadyPlaced = errors.New("order already confirmed")
)

// PaymentDetails is collected for display on the review step only. It is
// never transmitted and only presence-checked; there is no payment gateway
// behind this flow.
type PaymentDetails struct {
	CardName   string
	CardNumber string
	ExpDate    string
	CVV        string
}

// OrderPlacer is the one network dependency of the flow. *api.Client
// satisfies it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error)
}

// Flow is one checkout attempt over the current session and cart.
type Flow struct {
	sessions *session.Store
	carts    *cart.Store
	orders   OrderPlacer
	logger   *zap.Logger

	step    Step
	Address types.Address
	Payment PaymentDetails
}

// NewFlow enters the wizard. It fails with ErrNotSignedIn or ErrEmptyCart
// when the entry guard is violated.
func NewFlow(sessions *session.Store, carts *cart.Store, orders OrderPlacer, logger *zap.Logger) (*Flow, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !sessions.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}
	if carts.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return &Flow{
		sessions: sessions,
		carts:    carts,
		orders:   orders,
		logger:   logger,
		step:     StepAddress,
	}, nil
}

// Step returns the current wizard position.
func (f *Flow) Step() Step { return f.step }

// Next advances one step. From ADDRESS and PAYMENT it validates the
// collected details first; from REVIEW the forward action is PlaceOrder,
// not Next.
func (f *Flow) Next() error {
	switch f.step {
	case StepAddress:
		if missing := f.missingAddressFields(); len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrFieldsMissing, strings.Join(missing, ", "))
		}
		f.step = StepPayment
	case StepPayment:
		if missing := f.missingPaymentFields(); len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrFieldsMissing, strings.Join(missing, ", "))
		}
		f.step = StepReview
	case StepReview:
		return ErrNotAtReview
	case StepConfirmed:
		return ErrAlreadyPlaced
	}
	return nil
}

// Back moves exactly one step back, never below ADDRESS. A no-op from
// ADDRESS and CONFIRMED.
func (f *Flow) Back() {
	if f.step == StepPayment || f.step == StepReview {
		f.step--
	}
}

// PlaceOrder sends the order built from the cart lines and the collected
// address. Strictly on success the cart is cleared and the flow advances
// to CONFIRMED; on failure the flow stays at REVIEW with the cart
// untouched and the error goes back to the caller. No retry is attempted.
func (f *Flow) PlaceOrder(ctx context.Context) (types.Order, error) {
	if f.step != StepReview {
		if f.step == StepConfirmed {
			return types.Order{}, ErrAlreadyPlaced
		}
		return types.Order{}, ErrNotAtReview
	}

	lines := f.carts.Lines()
	req := types.OrderRequest{
		OrderItems:      make([]types.OrderRequestItem, 0, len(lines)),
		ShippingAddress: f.Address,
	}
	for _, l := range lines {
		req.OrderItems = append(req.OrderItems, types.OrderRequestItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	order, err := f.orders.PlaceOrder(ctx, req)
	if err != nil {
		f.logger.Warn("order placement failed", zap.Error(err))
		return types.Order{}, fmt.Errorf("place order: %w", err)
	}

	f.carts.Clear()
	f.step = StepConfirmed
	f.logger.Info("order placed",
		zap.Int64("order_id", order.OrderID),
		zap.Float64("total", order.TotalPrice))
	return order, nil
}

func (f *Flow) missingAddressFields() []string {
	var missing []string
	required := []struct {
		label string
		value string
	}{
		{"first name", f.Address.FirstName},
		{"last name", f.Address.LastName},
		{"address line 1", f.Address.Address1},
		{"city", f.Address.City},
		{"state", f.Address.State},
		{"zip", f.Address.Zip},
		{"country", f.Address.Country},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.label)
		}
	}
	return missing
}

func (f *Flow) missingPaymentFields() []string {
	var missing []string
	required := []struct {
		label string
		value string
	}{
		{"name on card", f.Payment.CardName},
		{"card number", f.Payment.CardNumber},
		{"expiration date", f.Payment.ExpDate},
		{"cvv", f.Payment.CVV},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.label)
		}
	}
	return missing
}
