package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ecobazaar/cmd/ecobazaar/ui"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit the shopping cart",
	Long: `The cart is per-profile and survives sign-out; it lives in the
profile directory and is rewritten after every change.`,
	RunE: runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add one of a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id]",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartSetCmd = &cobra.Command{
	Use:   "set [product-id] [quantity]",
	Short: "Set a line's quantity exactly (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartSet,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

func init() {
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartSetCmd)
	cartCmd.AddCommand(cartClearCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	printCart(a)
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	ctx, cancel := a.ctx()
	defer cancel()

	// Adding snapshots the product as it is in the catalog right now.
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return a.surface(err)
	}
	for _, p := range products {
		if p.ProductID == id {
			a.carts.Add(p)
			fmt.Printf("Added %s to cart.\n", p.Name)
			printCart(a)
			return nil
		}
	}
	return fmt.Errorf("no product with id %d", id)
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	a.carts.Remove(id)
	printCart(a)
	return nil
}

func runCartSet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	a.carts.SetQuantity(id, qty)
	printCart(a)
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	a.carts.Clear()
	fmt.Println("Cart cleared.")
	return nil
}

func printCart(a *app) {
	lines := a.carts.Lines()
	if len(lines) == 0 {
		fmt.Println("Your cart is empty. Run 'ecobazaar products' to start shopping.")
		return
	}
	table := ui.NewTable("Cart", []string{"ID", "Name", "Qty", "Price", "Subtotal"})
	for _, l := range lines {
		table.AddRow(
			strconv.FormatInt(l.ProductID, 10),
			l.Name,
			strconv.Itoa(l.Quantity),
			fmt.Sprintf("₹%.2f", l.Price),
			fmt.Sprintf("₹%.2f", l.Price*float64(l.Quantity)),
		)
	}
	fmt.Print(table.View(ui.DefaultStyles()))
	fmt.Printf("%d item(s), total ₹%.2f\n", a.carts.Count(), a.carts.Total())
}
