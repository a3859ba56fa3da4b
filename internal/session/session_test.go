package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ecobazaar/internal/localstore"
	"ecobazaar/internal/types"
)

// signToken builds a signed token the way the backend does: singular role
// claim, HS256. The client never verifies the signature, so the key is
// arbitrary.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func openStorage(t *testing.T) *localstore.Store {
	t.Helper()
	storage, err := localstore.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	return storage
}

func TestLoginDerivesIdentityFromToken(t *testing.T) {
	storage := openStorage(t)
	s := New(storage, nil)

	token := signToken(t, jwt.MapClaims{
		"sub":  "buyer@example.com",
		"role": types.RoleBuyer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s.Login(token)

	if !s.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	id, ok := s.Identity()
	if !ok {
		t.Fatal("expected identity")
	}
	if id.Subject != "buyer@example.com" {
		t.Fatalf("subject = %q", id.Subject)
	}
	if !s.HasRole(types.RoleBuyer) {
		t.Fatal("expected BUYER role")
	}
	if s.HasRole(types.RoleAdmin) {
		t.Fatal("unexpected ADMIN role")
	}
	if s.Token() != token {
		t.Fatal("Token() should return the raw bearer token")
	}
}

func TestRolesArrayClaimWins(t *testing.T) {
	storage := openStorage(t)
	s := New(storage, nil)

	s.Login(signToken(t, jwt.MapClaims{
		"sub":   "admin@example.com",
		"role":  types.RoleBuyer,
		"roles": []string{types.RoleAdmin, types.RoleSeller},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}))

	if !s.HasRole(types.RoleAdmin) || !s.HasRole(types.RoleSeller) {
		t.Fatal("expected roles from the array claim")
	}
	if s.HasRole(types.RoleBuyer) {
		t.Fatal("singular role claim should be ignored when roles is present")
	}
}

func TestLoginWithMalformedTokenKeepsExistingSession(t *testing.T) {
	storage := openStorage(t)
	s := New(storage, nil)

	good := signToken(t, jwt.MapClaims{
		"sub":  "buyer@example.com",
		"role": types.RoleBuyer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s.Login(good)
	s.Login("not.a.token")

	if s.Token() != good {
		t.Fatal("malformed login must leave the existing session alone")
	}
}

func TestHydrateRestoresPersistedSession(t *testing.T) {
	storage := openStorage(t)
	token := signToken(t, jwt.MapClaims{
		"sub":  "seller@example.com",
		"role": types.RoleSeller,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	New(storage, nil).Login(token)

	// A fresh process over the same profile is signed in.
	s := New(storage, nil)
	if !s.IsAuthenticated() {
		t.Fatal("expected session restored from storage")
	}
	id, _ := s.Identity()
	if id.Subject != "seller@example.com" {
		t.Fatalf("subject = %q", id.Subject)
	}
}

func TestExpiredPersistedTokenIsCleared(t *testing.T) {
	storage := openStorage(t)
	token := signToken(t, jwt.MapClaims{
		"sub":  "buyer@example.com",
		"role": types.RoleBuyer,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	if err := storage.SetString(localstore.KeyToken, token); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	s := New(storage, nil)
	if s.IsAuthenticated() {
		t.Fatal("expired token must hydrate as anonymous")
	}
	if _, ok, _ := storage.GetString(localstore.KeyToken); ok {
		t.Fatal("expired token must be cleared from storage")
	}
}

func TestUndecodablePersistedTokenIsCleared(t *testing.T) {
	storage := openStorage(t)
	if err := storage.SetString(localstore.KeyToken, "garbage"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	s := New(storage, nil)
	if s.IsAuthenticated() {
		t.Fatal("undecodable token must hydrate as anonymous")
	}
	if _, ok, _ := storage.GetString(localstore.KeyToken); ok {
		t.Fatal("undecodable token must be cleared from storage")
	}
}

func TestLogoutClearsTokenAndStatus(t *testing.T) {
	storage := openStorage(t)
	s := New(storage, nil)
	s.Login(signToken(t, jwt.MapClaims{
		"sub":  "seller@example.com",
		"role": types.RoleSeller,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}))
	s.SetUserStatus(types.SellerStatusActive)

	s.Logout()

	if s.IsAuthenticated() {
		t.Fatal("expected anonymous after logout")
	}
	if _, ok, _ := storage.GetString(localstore.KeyToken); ok {
		t.Fatal("token must be gone from storage")
	}
	if got := s.UserStatus(); got != "" {
		t.Fatalf("UserStatus() = %q after logout, want empty", got)
	}

	// Idempotent.
	s.Logout()
}

func TestSubscribeFiresOnLoginAndLogout(t *testing.T) {
	storage := openStorage(t)
	s := New(storage, nil)

	fired := 0
	s.Subscribe(func() { fired++ })

	s.Login(signToken(t, jwt.MapClaims{
		"sub":  "buyer@example.com",
		"role": types.RoleBuyer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}))
	s.Logout()

	if fired != 2 {
		t.Fatalf("subscriber fired %d times, want 2", fired)
	}
}

func TestRehydratePicksUpForeignLogout(t *testing.T) {
	storage := openStorage(t)
	s := New(storage, nil)
	s.Login(signToken(t, jwt.MapClaims{
		"sub":  "buyer@example.com",
		"role": types.RoleBuyer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}))

	// Another process clears the token file.
	if err := storage.Delete(localstore.KeyToken); err != nil {
		t.Fatalf("delete token: %v", err)
	}
	s.Rehydrate()

	if s.IsAuthenticated() {
		t.Fatal("expected anonymous after rehydrating a cleared profile")
	}
}
