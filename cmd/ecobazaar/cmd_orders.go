package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ecobazaar/cmd/ecobazaar/ui"
	"ecobazaar/internal/types"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE:  runOrders,
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel [order-id]",
	Short: "Cancel one of your orders",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersCancel,
}

func init() {
	ordersCmd.AddCommand(ordersCancelCmd)
}

func runOrders(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("not signed in; run 'ecobazaar login' first")
	}

	ctx, cancel := a.ctx()
	defer cancel()

	orders, err := a.client.MyOrders(ctx)
	if err != nil {
		return a.surface(err)
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}
	printOrders("My Orders", orders, false)
	return nil
}

func runOrdersCancel(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("not signed in; run 'ecobazaar login' first")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	order, err := a.client.CancelOrder(ctx, id)
	if err != nil {
		return a.surface(fmt.Errorf("could not cancel order %d: %w", id, err))
	}
	fmt.Printf("Order %d is now %s.\n", order.OrderID, order.Status)
	return nil
}

func printOrders(title string, orders []types.Order, withBuyer bool) {
	headers := []string{"ID", "Placed", "Status", "Items", "Total"}
	if withBuyer {
		headers = append(headers, "Buyer")
	}
	table := ui.NewTable(title, headers)
	for _, o := range orders {
		items := 0
		for _, it := range o.OrderItems {
			items += it.Quantity
		}
		placed := o.CreatedAt
		if t := types.ParseCreatedAt(o.CreatedAt); !t.IsZero() {
			placed = t.Format("2006-01-02 15:04")
		}
		row := []string{
			strconv.FormatInt(o.OrderID, 10),
			placed,
			o.Status,
			strconv.Itoa(items),
			fmt.Sprintf("₹%.2f", o.TotalPrice),
		}
		if withBuyer {
			row = append(row, o.BuyerName)
		}
		table.AddRow(row...)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
}
