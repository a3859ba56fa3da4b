package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecobazaar/cmd/ecobazaar/ui"
	"ecobazaar/internal/checkout"
	"ecobazaar/internal/localstore"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Run the checkout wizard",
	Long: `Walks the address -> payment -> review steps and places the order.
Requires a signed-in session and a non-empty cart. Payment details are
collected for the review step only; they are never sent anywhere.`,
	RunE: runCheckout,
}

func runCheckout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	flow, err := checkout.NewFlow(a.sessions, a.carts, a.client, a.logger)
	switch {
	case errors.Is(err, checkout.ErrNotSignedIn):
		return fmt.Errorf("please sign in to continue: ecobazaar login")
	case errors.Is(err, checkout.ErrEmptyCart):
		return fmt.Errorf("your cart is empty; start shopping: ecobazaar products")
	case err != nil:
		return err
	}

	// Another process sharing this profile may sign out or edit the cart
	// while the wizard is open; re-hydrate so the review step shows the
	// truth instead of a stale copy.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	changes, err := a.storage.Watch(watchCtx)
	if err != nil {
		a.logger.Warn("storage watcher unavailable", zap.Error(err))
	} else {
		go func() {
			for key := range changes {
				switch key {
				case localstore.KeyToken:
					a.sessions.Rehydrate()
				case localstore.KeyCartItems:
					a.carts.Rehydrate()
				}
			}
		}()
	}

	model := ui.NewCheckoutModel(flow, a.carts, timeout)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("checkout wizard: %w", err)
	}

	if m, ok := final.(ui.CheckoutModel); ok && m.Confirmed() {
		order := m.Order()
		fmt.Printf("\nThank you for your order! Order %d has been placed and is pending approval.\n", order.OrderID)
	}
	return nil
}
