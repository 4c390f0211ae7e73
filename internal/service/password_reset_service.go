package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/mail"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const resetTokenExpiry = time.Hour

// MailSender delivers a single transactional message.
type MailSender interface {
	Send(to, subject, body string) error
}

// PasswordResetService issues and redeems password-reset tokens.
type PasswordResetService interface {
	Request(ctx context.Context, email string) error
	Confirm(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	resetRepo   repository.PasswordResetRepository
	mailer      MailSender
	frontendURL string
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	mailer MailSender,
	frontendURL string,
) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

// Request creates a reset token and mails it. An unknown email returns nil
// so the endpoint cannot be used to enumerate accounts; mail delivery runs
// in the background and its failure is logged, never surfaced.
func (s *passwordResetService) Request(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	reset := &model.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(resetTokenExpiry),
	}
	if err := s.resetRepo.Create(ctx, reset); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, reset.Token)
	go func() {
		if err := s.mailer.Send(user.Email, "Reset your password", mail.PasswordResetBody(user.Name, resetURL)); err != nil {
			log := logger.Get()
			log.Error().Err(err).Uint("user_id", user.ID).Msg("send password reset mail")
		}
	}()

	return nil
}

// Confirm redeems a token and sets the new password. Tokens are single-use.
func (s *passwordResetService) Confirm(ctx context.Context, token, newPassword string) error {
	reset, err := s.resetRepo.FindByToken(ctx, token)
	if err != nil {
		return errors.ErrResetTokenInvalid
	}
	if !reset.Usable(time.Now()) {
		return errors.ErrResetTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, reset.UserID)
	if err != nil {
		return errors.ErrResetTokenInvalid
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.resetRepo.MarkUsed(ctx, reset.ID, time.Now()); err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	return nil
}
