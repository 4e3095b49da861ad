package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/commercekit/storefront/internal/auth"
	"github.com/commercekit/storefront/internal/domain"
)

type UserService struct {
	users    UserStore
	tokens   *auth.TokenManager
	notifier Notifier
}

func NewUserService(users UserStore, tokens *auth.TokenManager, notifier Notifier) *UserService {
	return &UserService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (in RegisterInput) validate() error {
	if len(in.Username) < 3 || len(in.Username) > 15 {
		return fmt.Errorf("username must be 3-15 characters: %w", domain.ErrInvalidInput)
	}
	if len(in.Email) < 7 || len(in.Email) > 255 || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("a valid email is required: %w", domain.ErrInvalidInput)
	}
	if len(in.Password) < 4 || len(in.Password) > 25 {
		return fmt.Errorf("password must be 4-25 characters: %w", domain.ErrInvalidInput)
	}
	return nil
}

// Register creates an account and returns it with a signed auth token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if err := input.validate(); err != nil {
		return nil, "", err
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := domain.NewUser(input.Username, input.Email, passwordHash)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

type UpdateUserInput struct {
	Username string
	Email    string
	Password string
}

// Update patches username, email and/or password. A new password must differ
// from the current one.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Password != "" {
		if auth.CheckPassword(user.PasswordHash, input.Password) {
			return nil, fmt.Errorf("the new password cannot match the old password: %w", domain.ErrConflict)
		}
		passwordHash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Username != "" {
		user.Username = input.Username
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and sends a goodbye mail.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\n\nWe're sad to see you go!", user.Username)
	if err := s.notifier.Send(ctx, user.Email, "Goodbye", body); err != nil {
		slog.Warn("goodbye mail failed", "user_id", id, "error", err)
	}

	slog.Info("user deleted", "user_id", id)
	return user, nil
}

// RequestSeller mails the user a link confirming the upgrade to seller.
func (s *UserService) RequestSeller(ctx context.Context, id uuid.UUID, host string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsSeller() {
		return nil, fmt.Errorf("this user already is a seller: %w", domain.ErrConflict)
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nPlease verify your account by clicking the link:\nhttp://%s/api/v1/users/confirmation/%s\n\nThank you!\n",
		user.Username, host, user.Email,
	)
	if err := s.notifier.Send(ctx, user.Email, "Become a seller", body); err != nil {
		return nil, fmt.Errorf("verification mail error: %w", err)
	}

	return user, nil
}

// ConfirmSeller flips the user's role to seller.
func (s *UserService) ConfirmSeller(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsSeller() {
		return fmt.Errorf("this user already is a seller: %w", domain.ErrConflict)
	}

	if err := s.users.SetRole(ctx, id, domain.RoleSeller); err != nil {
		return err
	}

	slog.Info("user upgraded to seller", "user_id", id)
	return nil
}
