package auth

import (
	"context"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

// Service authenticates terminals. Three credential shapes are accepted:
// username+password, phone_number+password, or a bare pin_code.
type Service struct {
	users repository.Users
	jwt   *JWTManager
}

func NewService(users repository.Users, jwt *JWTManager) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	var (
		user domain.User
		err  error
	)
	switch {
	case req.PinCode != "":
		user, err = s.loginByPIN(ctx, req.PinCode)
	case req.Username != "" && req.Password != "":
		user, err = s.loginByPassword(ctx, req.Password, func() (domain.User, error) {
			return s.users.GetUserByUsername(ctx, req.Username)
		})
	case req.PhoneNumber != "" && req.Password != "":
		user, err = s.loginByPassword(ctx, req.Password, func() (domain.User, error) {
			return s.users.GetUserByPhone(ctx, req.PhoneNumber)
		})
	default:
		return domain.LoginResponse{}, domain.E(domain.KindValidation, "missing credentials")
	}
	if err != nil {
		return domain.LoginResponse{}, err
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return domain.LoginResponse{}, domain.Wrap(domain.KindStorage, "failed to issue token", err)
	}
	return domain.LoginResponse{
		Token: token,
		User:  domain.LoginUser{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}

func (s *Service) loginByPassword(_ context.Context, password string, lookup func() (domain.User, error)) (domain.User, error) {
	user, err := lookup()
	if err != nil {
		// Same failure shape for unknown user and bad password.
		return domain.User{}, domain.E(domain.KindAuthentication, "invalid credentials")
	}
	if user.PasswordHash == nil || !CheckCredential(*user.PasswordHash, password) {
		return domain.User{}, domain.E(domain.KindAuthentication, "invalid credentials")
	}
	return user, nil
}

// loginByPIN compares the PIN against every PIN-credentialed user. The staff
// roster is small so the scan is fine, and it keeps PINs hashed at rest.
func (s *Service) loginByPIN(ctx context.Context, pin string) (domain.User, error) {
	users, err := s.users.ListPINUsers(ctx)
	if err != nil {
		return domain.User{}, domain.Wrap(domain.KindStorage, "failed to load users", err)
	}
	for _, u := range users {
		if CheckCredential(*u.PINHash, pin) {
			return u, nil
		}
	}
	return domain.User{}, domain.E(domain.KindAuthentication, "invalid credentials")
}
