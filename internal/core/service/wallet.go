package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// WalletService manages the user's own wallets.
type WalletService struct {
	gw  Gateway
	txs *TransactionService
}

// NewWalletService creates a WalletService.
func NewWalletService(gw Gateway) *WalletService {
	return &WalletService{gw: gw, txs: NewTransactionService(gw)}
}

// List returns the user's wallets. The backend may answer with a bare
// array or a {success,data} envelope.
func (s *WalletService) List(ctx context.Context) ([]domain.Wallet, error) {
	var raw json.RawMessage
	if err := s.gw.Do(ctx, connection.Request{Method: http.MethodGet, Path: "/api/wallets"}, &raw); err != nil {
		return nil, err
	}
	wallets, err := decodeList[domain.Wallet](raw)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return wallets, nil
}

// Get finds one wallet in List. The backend has no single-wallet route.
func (s *WalletService) Get(ctx context.Context, id uint) (*domain.Wallet, error) {
	wallets, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range wallets {
		if wallets[i].ID == id {
			return &wallets[i], nil
		}
	}
	return nil, domain.ErrWalletNotFound.WithDetails(fmt.Sprint(id))
}

// Create adds a wallet. An empty code is generated.
func (s *WalletService) Create(ctx context.Context, in domain.WalletInput) (*domain.Wallet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" {
		in.Code = NewWalletCode()
	}

	var w domain.Wallet
	err := s.gw.Do(ctx, connection.Request{Method: http.MethodPost, Path: "/api/wallets", Body: in}, &w)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Update sends the fields set in patch.
func (s *WalletService) Update(ctx context.Context, id uint, patch domain.WalletPatch) (*domain.Wallet, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var w domain.Wallet
	err := s.gw.Do(ctx, connection.Request{Method: http.MethodPut, Path: walletPath(id), Body: patch}, &w)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Delete removes a wallet.
func (s *WalletService) Delete(ctx context.Context, id uint) error {
	if err := validID(id); err != nil {
		return err
	}
	return s.gw.Do(ctx, connection.Request{Method: http.MethodDelete, Path: walletPath(id)}, nil)
}

// Summary fetches the wallet's transactions and reduces them against goal.
func (s *WalletService) Summary(ctx context.Context, id uint, goal float64) (domain.Summary, []domain.Transaction, error) {
	txs, err := s.txs.List(ctx, id)
	if err != nil {
		return domain.Summary{}, nil, err
	}
	return domain.Summarize(txs, goal), txs, nil
}

// NewWalletCode returns a short wallet code: "W" and six characters of a
// fresh ULID's random part.
func NewWalletCode() string {
	id := ulid.Make().String()
	return "W" + id[len(id)-6:]
}

func walletPath(id uint) string {
	return fmt.Sprintf("/api/wallets/%d", id)
}

func validID(id uint) error {
	if id == 0 {
		return domain.ErrWalletIDInvalid
	}
	return nil
}
