package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// ShareService manages wallet sharing between users.
type ShareService struct {
	gw Gateway
}

// NewShareService creates a ShareService.
func NewShareService(gw Gateway) *ShareService {
	return &ShareService{gw: gw}
}

// Share invites the user with email to the wallet.
func (s *ShareService) Share(ctx context.Context, walletID uint, email string, perm domain.Permission) (*domain.WalletShare, error) {
	if err := validID(walletID); err != nil {
		return nil, err
	}
	req := domain.ShareRequest{Email: strings.TrimSpace(email), Permission: perm}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var share domain.WalletShare
	err := s.gw.Do(ctx, connection.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/wallets/%d/share", walletID),
		Body:   req,
	}, &share)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// Shared lists wallets shared with the user and accepted.
func (s *ShareService) Shared(ctx context.Context) ([]domain.WalletShare, error) {
	return s.list(ctx, "/api/shared-wallets")
}

// Pending lists invitations awaiting the user's answer.
func (s *ShareService) Pending(ctx context.Context) ([]domain.WalletShare, error) {
	return s.list(ctx, "/api/pending-shares")
}

// Respond accepts or rejects a pending share and returns the backend's
// message.
func (s *ShareService) Respond(ctx context.Context, shareID uint, status domain.ShareStatus) (string, error) {
	if shareID == 0 {
		return "", domain.ErrShareIDInvalid
	}
	if err := domain.ValidateResponse(status); err != nil {
		return "", err
	}

	var resp struct {
		Message string `json:"message"`
	}
	err := s.gw.Do(ctx, connection.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/shares/%d", shareID),
		Body:   map[string]domain.ShareStatus{"status": status},
	}, &resp)
	if err != nil {
		return "", err
	}
	return messageOr(resp.Message, "share "+string(status)), nil
}

func (s *ShareService) list(ctx context.Context, path string) ([]domain.WalletShare, error) {
	var raw json.RawMessage
	if err := s.gw.Do(ctx, connection.Request{Method: http.MethodGet, Path: path}, &raw); err != nil {
		return nil, err
	}
	shares, err := decodeList[domain.WalletShare](raw)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return shares, nil
}
