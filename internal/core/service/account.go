package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// AccountService manages the logged-in user's account.
type AccountService struct {
	gw Gateway
}

// NewAccountService creates an AccountService.
func NewAccountService(gw Gateway) *AccountService {
	return &AccountService{gw: gw}
}

// Me fetches the current user. A response without an id or email is an
// error, so an empty 2xx body never counts as a login.
func (s *AccountService) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := s.gw.Do(ctx, connection.Request{Method: http.MethodGet, Path: "/api/me"}, &u); err != nil {
		return nil, err
	}
	if u.ID == 0 && u.Email == "" {
		return nil, domain.ErrEmptyUser
	}
	return &u, nil
}

// ChangePassword replaces the password and returns the backend's message.
func (s *AccountService) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	body := domain.PasswordChange{OldPassword: oldPassword, NewPassword: newPassword}
	if err := body.Validate(); err != nil {
		return "", err
	}

	var resp struct {
		Message string `json:"message"`
	}
	err := s.gw.Do(ctx, connection.Request{Method: http.MethodPut, Path: "/api/me/password", Body: body}, &resp)
	if err != nil {
		return "", err
	}
	return messageOr(resp.Message, "password updated"), nil
}

// ChangeEmail updates the email and returns the updated user. Callers
// reflect it into the session with SessionStore.UpdateUser.
func (s *AccountService) ChangeEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	var u domain.User
	err := s.gw.Do(ctx, connection.Request{
		Method: http.MethodPut,
		Path:   "/api/me/email",
		Body:   map[string]string{"email": email},
	}, &u)
	if err != nil {
		return nil, err
	}
	if u.Email == "" {
		u.Email = email
	}
	return &u, nil
}

// Delete removes the account. Callers log out afterwards.
func (s *AccountService) Delete(ctx context.Context) error {
	return s.gw.Do(ctx, connection.Request{Method: http.MethodDelete, Path: "/api/me"}, nil)
}
