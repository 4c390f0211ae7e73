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

// UserService handles user reads and admin user management.
type UserService interface {
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	AdminUpdate(ctx context.Context, id uint, name, role string) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// AdminUpdate sets a user's display name and role. Empty arguments leave the
// corresponding field unchanged.
func (s *userService) AdminUpdate(ctx context.Context, id uint, name, role string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if role != "" {
		if role != model.RoleUser && role != model.RoleAdmin {
			return nil, fmt.Errorf("%w: %q", errors.ErrInvalidRole, role)
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
