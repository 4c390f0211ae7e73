package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartService handles the authenticated user's shopping cart.
type CartService interface {
	List(ctx context.Context, userID uint) ([]model.CartItem, error)
	Add(ctx context.Context, userID, productID uint, quantity int) (*model.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID uint, quantity int) (*model.CartItem, error)
	Remove(ctx context.Context, userID, productID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// List returns the user's cart with products joined.
func (s *cartService) List(ctx context.Context, userID uint) ([]model.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

// Add puts a product in the cart, merging quantities when the product is
// already present.
func (s *cartService) Add(ctx context.Context, userID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, errors.ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err == nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
		return existing, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create cart item: %w", err)
	}
	return item, nil
}

// SetQuantity replaces the quantity of a cart row.
func (s *cartService) SetQuantity(ctx context.Context, userID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, errors.ErrInvalidQuantity
	}

	item, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return item, nil
}

// Remove deletes a product from the cart.
func (s *cartService) Remove(ctx context.Context, userID, productID uint) error {
	return s.cartRepo.Delete(ctx, userID, productID)
}
