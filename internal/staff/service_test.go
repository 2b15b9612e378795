package staff

import (
	"context"
	"testing"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

var (
	admin  = domain.Actor{ID: 1, Username: "a", Role: domain.RoleAdmin}
	waiter = domain.Actor{ID: 2, Username: "w", Role: domain.RoleWaiter}
)

func TestCreateCredentialShapes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     domain.CreateUserRequest
		kind    domain.Kind // zero means success expected
		wantPIN bool
	}{
		{"kitchen with pin", domain.CreateUserRequest{Username: "k1", Role: domain.RoleKitchen, PinCode: "1234"}, "", true},
		{"bartender with pin", domain.CreateUserRequest{Username: "b1", Role: domain.RoleBartender, PinCode: "1234"}, "", true},
		{"waiter with pin", domain.CreateUserRequest{Username: "w1", Role: domain.RoleWaiter, PinCode: "1234"}, "", true},
		{"cashier with password", domain.CreateUserRequest{Username: "c1", Role: domain.RoleCashier, Password: "secret123"}, "", false},
		{"admin with password", domain.CreateUserRequest{Username: "a1", Role: domain.RoleAdmin, Password: "secret123"}, "", false},
		{"kitchen missing pin", domain.CreateUserRequest{Username: "k2", Role: domain.RoleKitchen, Password: "secret123"}, domain.KindValidation, false},
		{"cashier missing password", domain.CreateUserRequest{Username: "c2", Role: domain.RoleCashier, PinCode: "1234"}, domain.KindValidation, false},
		{"invalid role", domain.CreateUserRequest{Username: "x", Role: domain.Role("chef"), Password: "secret123"}, domain.KindValidation, false},
		{"missing username", domain.CreateUserRequest{Role: domain.RoleCashier, Password: "secret123"}, domain.KindValidation, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(repository.NewMemory())
			u, err := svc.Create(ctx, admin, tc.req)
			if tc.kind != "" {
				if domain.KindOf(err) != tc.kind {
					t.Fatalf("kind = %s, want %s", domain.KindOf(err), tc.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if tc.wantPIN && u.PINHash == nil {
				t.Fatal("pin role stored without a pin hash")
			}
			if !tc.wantPIN && u.PasswordHash == nil {
				t.Fatal("password role stored without a password hash")
			}
			if u.PINHash != nil && *u.PINHash == tc.req.PinCode {
				t.Fatal("pin stored in the clear")
			}
			if u.PasswordHash != nil && *u.PasswordHash == tc.req.Password {
				t.Fatal("password stored in the clear")
			}
		})
	}
}

func TestCreateIsAdminOnly(t *testing.T) {
	svc := NewService(repository.NewMemory())
	_, err := svc.Create(context.Background(), waiter, domain.CreateUserRequest{
		Username: "w2", Role: domain.RoleWaiter, PinCode: "1234",
	})
	if domain.KindOf(err) != domain.KindAuthorization {
		t.Fatalf("kind = %s, want authorization", domain.KindOf(err))
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := NewService(repository.NewMemory())
	req := domain.CreateUserRequest{Username: "c1", Role: domain.RoleCashier, Password: "secret123"}
	if _, err := svc.Create(ctx, admin, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, admin, req); domain.KindOf(err) != domain.KindConflict {
		t.Fatal("duplicate username accepted")
	}
}

func TestDeleteLastAdmin(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	svc := NewService(store)

	first, err := svc.Create(ctx, admin, domain.CreateUserRequest{Username: "a1", Role: domain.RoleAdmin, Password: "secret123"})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := svc.Delete(ctx, admin, first.ID); domain.KindOf(err) != domain.KindConflict {
		t.Fatal("last admin was deletable")
	}

	second, err := svc.Create(ctx, admin, domain.CreateUserRequest{Username: "a2", Role: domain.RoleAdmin, Password: "secret123"})
	if err != nil {
		t.Fatalf("create second admin: %v", err)
	}
	if err := svc.Delete(ctx, admin, second.ID); err != nil {
		t.Fatalf("delete with another admin remaining: %v", err)
	}
}

func TestDeleteNonAdminRole(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	svc := NewService(store)

	u, err := svc.Create(ctx, admin, domain.CreateUserRequest{Username: "w1", Role: domain.RoleWaiter, PinCode: "1234"})
	if err != nil {
		t.Fatalf("create waiter: %v", err)
	}
	if err := svc.Delete(ctx, admin, u.ID); err != nil {
		t.Fatalf("delete waiter: %v", err)
	}
	if _, err := store.GetUser(ctx, u.ID); domain.KindOf(err) != domain.KindNotFound {
		t.Fatal("waiter still present after delete")
	}
}
