package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ecobazaar/internal/api"
	"ecobazaar/internal/types"
)

var (
	loginRole     string
	loginEmail    string
	loginPassword string

	signupRole     string
	signupName     string
	signupEmail    string
	signupPassword string
	signupBusiness string
	signupGST      string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a buyer, seller, or admin",
	Long: `Authenticates against the backend and stores the issued bearer token
in the profile directory. Sellers also get their approval status stored;
a PENDING or SUSPENDED seller can sign in but the dashboard stays gated.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE:  runLogout,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new buyer or seller account",
	RunE:  runSignup,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginRole, "role", "buyer", "Account role: buyer, seller, or admin")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	signupCmd.Flags().StringVar(&signupRole, "role", "buyer", "Account role: buyer or seller")
	signupCmd.Flags().StringVar(&signupName, "name", "", "Display name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupBusiness, "business-name", "", "Business name (sellers only)")
	signupCmd.Flags().StringVar(&signupGST, "gst", "", "GST number (sellers only)")
	signupCmd.MarkFlagRequired("name")
	signupCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	role, err := parseRole(loginRole, true)
	if err != nil {
		return err
	}
	email := loginEmail
	if email == "" {
		email = promptLine("Email: ")
	}
	password := loginPassword
	if password == "" {
		password = promptLine("Password: ")
	}

	ctx, cancel := a.ctx()
	defer cancel()

	resp, err := a.client.Login(ctx, role, email, password)
	if err != nil {
		var apiErr *api.Error
		if ok := asAPIError(err, &apiErr); ok && apiErr.Message != "" {
			return fmt.Errorf("%s", apiErr.Message)
		}
		return err
	}

	a.sessions.Login(resp.Token)
	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("backend issued an unreadable token")
	}

	fmt.Printf("Signed in as %s (%s)\n", resp.Email, resp.Role)
	if resp.Role == types.RoleSeller {
		a.sessions.SetUserStatus(resp.Status)
		switch resp.Status {
		case types.SellerStatusActive:
			fmt.Println("Seller account is active. Run 'ecobazaar seller dashboard' to get started.")
		case types.SellerStatusSuspended:
			fmt.Println("Seller account is suspended. Contact the marketplace admin.")
		default:
			fmt.Println("Seller account is pending approval.")
		}
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	a.sessions.Logout()
	fmt.Println("Signed out.")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	role, err := parseRole(signupRole, false)
	if err != nil {
		return err
	}
	password := signupPassword
	if password == "" {
		password = promptLine("Password: ")
	}

	ctx, cancel := a.ctx()
	defer cancel()

	switch role {
	case types.RoleBuyer:
		err = a.client.SignupBuyer(ctx, api.BuyerSignup{
			Username: signupName,
			Email:    signupEmail,
			Password: password,
		})
	case types.RoleSeller:
		if signupBusiness == "" || signupGST == "" {
			return fmt.Errorf("seller signup requires --business-name and --gst")
		}
		err = a.client.SignupSeller(ctx, api.SellerSignup{
			Username:     signupName,
			Email:        signupEmail,
			Password:     password,
			BusinessName: signupBusiness,
			GSTNumber:    signupGST,
		})
	}
	if err != nil {
		var apiErr *api.Error
		if ok := asAPIError(err, &apiErr); ok && apiErr.Message != "" {
			return fmt.Errorf("signup failed: %s", apiErr.Message)
		}
		return fmt.Errorf("signup failed: %w", err)
	}

	fmt.Println("Signup successful! Please login.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	id, ok := a.sessions.Identity()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("Subject: %s\n", id.Subject)
	fmt.Printf("Roles:   %s\n", strings.Join(id.Roles, ", "))
	fmt.Printf("Expires: %s\n", time.Unix(id.ExpiresAt, 0).Format(time.RFC1123))
	if status := a.sessions.UserStatus(); status != "" {
		fmt.Printf("Seller status: %s\n", status)
	}
	return nil
}

func parseRole(s string, allowAdmin bool) (string, error) {
	switch strings.ToLower(s) {
	case "buyer", "user":
		return types.RoleBuyer, nil
	case "seller":
		return types.RoleSeller, nil
	case "admin":
		if allowAdmin {
			return types.RoleAdmin, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
