package auth

import (
	"context"
	"testing"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

func testJWT(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}
	return m
}

func seedUser(t *testing.T, store *repository.Memory, username string, role domain.Role, password, pin string) domain.User {
	t.Helper()
	u := domain.User{Username: username, Role: role}
	if password != "" {
		h, err := HashCredential(password)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		u.PasswordHash = &h
	}
	if pin != "" {
		h, err := HashCredential(pin)
		if err != nil {
			t.Fatalf("hash pin: %v", err)
		}
		u.PINHash = &h
	}
	created, err := store.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return created
}

func TestLoginByUsername(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seedUser(t, store, "admin", domain.RoleAdmin, "letmein123", "")
	svc := NewService(store, testJWT(t))

	resp, err := svc.Login(ctx, domain.LoginRequest{Username: "admin", Password: "letmein123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	if resp.User.Role != domain.RoleAdmin {
		t.Fatalf("role = %s, want admin", resp.User.Role)
	}
}

func TestLoginByPhone(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	phone := "+77001234567"
	u := domain.User{Username: "cashier1", Role: domain.RoleCashier, PhoneNumber: &phone}
	h, _ := HashCredential("tillkey99")
	u.PasswordHash = &h
	if _, err := store.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	svc := NewService(store, testJWT(t))

	resp, err := svc.Login(ctx, domain.LoginRequest{PhoneNumber: phone, Password: "tillkey99"})
	if err != nil {
		t.Fatalf("login by phone: %v", err)
	}
	if resp.User.Username != "cashier1" {
		t.Fatalf("username = %s, want cashier1", resp.User.Username)
	}
}

func TestLoginByPIN(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seedUser(t, store, "kitchen1", domain.RoleKitchen, "", "1234")
	seedUser(t, store, "bar1", domain.RoleBartender, "", "5678")
	svc := NewService(store, testJWT(t))

	resp, err := svc.Login(ctx, domain.LoginRequest{PinCode: "5678"})
	if err != nil {
		t.Fatalf("login by pin: %v", err)
	}
	if resp.User.Username != "bar1" {
		t.Fatalf("username = %s, want bar1", resp.User.Username)
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seedUser(t, store, "waiter1", domain.RoleWaiter, "goodpass1", "4321")
	svc := NewService(store, testJWT(t))

	tests := []struct {
		name string
		req  domain.LoginRequest
		kind domain.Kind
	}{
		{"wrong password", domain.LoginRequest{Username: "waiter1", Password: "wrong"}, domain.KindAuthentication},
		{"unknown user", domain.LoginRequest{Username: "ghost", Password: "goodpass1"}, domain.KindAuthentication},
		{"wrong pin", domain.LoginRequest{PinCode: "0000"}, domain.KindAuthentication},
		{"no credentials", domain.LoginRequest{}, domain.KindValidation},
		{"username without password", domain.LoginRequest{Username: "waiter1"}, domain.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if domain.KindOf(err) != tc.kind {
				t.Fatalf("kind = %s, want %s", domain.KindOf(err), tc.kind)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := testJWT(t)
	token, err := m.GenerateToken(domain.User{ID: 42, Username: "waiter1", Role: domain.RoleWaiter})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	actor, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if actor.ID != 42 || actor.Username != "waiter1" || actor.Role != domain.RoleWaiter {
		t.Fatalf("actor = %+v", actor)
	}
}

func TestTokenRejections(t *testing.T) {
	m := testJWT(t)
	other, err := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour)
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}
	foreign, err := other.GenerateToken(domain.User{ID: 1, Username: "x", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	for _, token := range []string{"not-a-token", foreign} {
		if _, err := m.ValidateToken(token); domain.KindOf(err) != domain.KindAuthentication {
			t.Fatalf("token %q accepted", token)
		}
	}
}

func TestRequire(t *testing.T) {
	waiter := domain.Actor{ID: 1, Role: domain.RoleWaiter}
	if err := Require(waiter, domain.RoleWaiter, domain.RoleAdmin); err != nil {
		t.Fatalf("allowed role refused: %v", err)
	}
	err := Require(waiter, domain.RoleAdmin)
	if domain.KindOf(err) != domain.KindAuthorization {
		t.Fatalf("kind = %s, want authorization", domain.KindOf(err))
	}
}
