// Package catalog manages the sellable item catalog. Mutation is admin-only;
// every terminal reads it.
package catalog

import (
	"context"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

var mutateRoles = []domain.Role{domain.RoleAdmin}

type Service struct {
	store repository.Items
}

func NewService(store repository.Items) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, req domain.CreateItemRequest) (domain.Item, error) {
	if err := auth.Require(actor, mutateRoles...); err != nil {
		return domain.Item{}, err
	}
	if req.ItemType != domain.ItemTypeFood && req.ItemType != domain.ItemTypeDrink {
		return domain.Item{}, domain.Ef(domain.KindValidation, "invalid item type %q", req.ItemType)
	}
	if req.Price <= 0 {
		return domain.Item{}, domain.E(domain.KindValidation, "price must be positive")
	}
	return s.store.CreateItem(ctx, domain.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ItemType:    req.ItemType,
		ImageURL:    req.ImageURL,
	})
}

// Update changes name, description, price and image. item_type is an
// immutable routing key and is never touched.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int, req domain.CreateItemRequest) (domain.Item, error) {
	if err := auth.Require(actor, mutateRoles...); err != nil {
		return domain.Item{}, err
	}
	if req.Price <= 0 {
		return domain.Item{}, domain.E(domain.KindValidation, "price must be positive")
	}
	return s.store.UpdateItem(ctx, domain.Item{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int) error {
	if err := auth.Require(actor, mutateRoles...); err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int) (domain.Item, error) {
	return s.store.GetItem(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	return s.store.ListItems(ctx)
}
