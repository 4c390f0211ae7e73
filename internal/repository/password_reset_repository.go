package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// PasswordResetRepository defines password-reset token persistence.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *model.PasswordReset) error
	FindByToken(ctx context.Context, token string) (*model.PasswordReset, error)
	MarkUsed(ctx context.Context, id uint, usedAt time.Time) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset repository.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *model.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *passwordResetRepository) FindByToken(ctx context.Context, token string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id uint, usedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.PasswordReset{}).
		Where("id = ?", id).
		Update("used_at", usedAt).Error
}
