package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecobazaar/internal/api"
	"ecobazaar/internal/cart"
	"ecobazaar/internal/catalog"
	"ecobazaar/internal/config"
	"ecobazaar/internal/localstore"
	"ecobazaar/internal/session"
	"ecobazaar/internal/types"
)

// app wires the stores and the API client for one command invocation.
// Stores are injected explicitly rather than held in package globals, so
// tests and the TUI share the same construction path.
type app struct {
	cfg      config.Config
	storage  *localstore.Store
	sessions *session.Store
	carts    *cart.Store
	client   *api.Client
	catalog  *catalog.Service
	logger   *zap.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load(profileDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	// Each invocation gets a client id so interleaved logs from
	// concurrent "tabs" sharing a profile stay attributable.
	log := logger.With(zap.String("client_id", uuid.NewString()[:8]))

	storage, err := localstore.Open(cfg.ProfileDir, log)
	if err != nil {
		return nil, err
	}
	sessions := session.New(storage, log)
	carts := cart.New(storage, log)
	client := api.New(api.Config{BaseURL: cfg.BaseURL, Timeout: timeout}, sessions, log)

	return &app{
		cfg:      cfg,
		storage:  storage,
		sessions: sessions,
		carts:    carts,
		client:   client,
		catalog:  catalog.NewService(client),
		logger:   log,
	}, nil
}

func (a *app) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// requireRole enforces the role gate in front of a console. A 401-style
// message is returned rather than entering the gated commands.
func (a *app) requireRole(role string) error {
	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("not signed in; run 'ecobazaar login --role %s' first", roleFlagValue(role))
	}
	if !a.sessions.HasRole(role) {
		return fmt.Errorf("this console requires the %s role", role)
	}
	return nil
}

func roleFlagValue(role string) string {
	switch role {
	case types.RoleBuyer:
		return "buyer"
	case types.RoleSeller:
		return "seller"
	case types.RoleAdmin:
		return "admin"
	}
	return role
}

func asAPIError(err error, target **api.Error) bool {
	return errors.As(err, target)
}

// surface translates an API failure into the message a user should see.
// A 401 additionally drops the local session, the way the original client
// cleared the token and bounced to sign-in.
func (a *app) surface(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		a.sessions.Logout()
		return fmt.Errorf("session rejected by backend; please sign in again")
	}
	return err
}
