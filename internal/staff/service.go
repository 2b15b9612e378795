// Package staff manages user accounts. Roles are immutable once created and
// the last admin can never be removed.
package staff

import (
	"context"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

var adminOnly = []domain.Role{domain.RoleAdmin}

type Service struct {
	store repository.Users
}

func NewService(store repository.Users) *Service {
	return &Service{store: store}
}

// Create provisions a user with the credential shape its role requires:
// a PIN for pad-authenticated roles, a password otherwise.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req domain.CreateUserRequest) (domain.User, error) {
	if err := auth.Require(actor, adminOnly...); err != nil {
		return domain.User{}, err
	}
	if !req.Role.Valid() {
		return domain.User{}, domain.Ef(domain.KindValidation, "invalid role %q", req.Role)
	}
	if req.Username == "" {
		return domain.User{}, domain.E(domain.KindValidation, "username is required")
	}

	u := domain.User{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	}
	switch {
	case req.Role.UsesPIN():
		if req.PinCode == "" {
			return domain.User{}, domain.Ef(domain.KindValidation, "role %s requires a pin_code", req.Role)
		}
		hash, err := auth.HashCredential(req.PinCode)
		if err != nil {
			return domain.User{}, domain.Wrap(domain.KindStorage, "failed to hash pin", err)
		}
		u.PINHash = &hash
	default:
		if req.Password == "" {
			return domain.User{}, domain.Ef(domain.KindValidation, "role %s requires a password", req.Role)
		}
		hash, err := auth.HashCredential(req.Password)
		if err != nil {
			return domain.User{}, domain.Wrap(domain.KindStorage, "failed to hash password", err)
		}
		u.PasswordHash = &hash
	}

	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.User{}, domain.Ef(domain.KindConflict, "username %q already exists", req.Username)
	}
	return s.store.CreateUser(ctx, u)
}

// Delete refuses to remove the last remaining admin.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int) error {
	if err := auth.Require(actor, adminOnly...); err != nil {
		return err
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		n, err := s.store.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		if n <= 1 {
			return domain.E(domain.KindConflict, "cannot delete the last admin")
		}
	}
	return s.store.DeleteUser(ctx, id)
}

func (s *Service) List(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := auth.Require(actor, adminOnly...); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}
