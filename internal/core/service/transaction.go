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

// TransactionService manages the entries of a wallet.
type TransactionService struct {
	gw Gateway
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(gw Gateway) *TransactionService {
	return &TransactionService{gw: gw}
}

// List returns the wallet's transactions.
func (s *TransactionService) List(ctx context.Context, walletID uint) ([]domain.Transaction, error) {
	if err := validID(walletID); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.gw.Do(ctx, connection.Request{Method: http.MethodGet, Path: txPath(walletID, 0)}, &raw); err != nil {
		return nil, err
	}
	txs, err := decodeList[domain.Transaction](raw)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Create adds a transaction to the wallet.
func (s *TransactionService) Create(ctx context.Context, walletID uint, in domain.TransactionInput) (*domain.Transaction, error) {
	if err := validID(walletID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)

	var tx domain.Transaction
	err := s.gw.Do(ctx, connection.Request{Method: http.MethodPost, Path: txPath(walletID, 0), Body: in}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Update sends the fields set in patch.
func (s *TransactionService) Update(ctx context.Context, walletID, txID uint, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if err := validID(walletID); err != nil {
		return nil, err
	}
	if txID == 0 {
		return nil, domain.ErrTxIDInvalid
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var tx domain.Transaction
	err := s.gw.Do(ctx, connection.Request{Method: http.MethodPut, Path: txPath(walletID, txID), Body: patch}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, walletID, txID uint) error {
	if err := validID(walletID); err != nil {
		return err
	}
	if txID == 0 {
		return domain.ErrTxIDInvalid
	}
	return s.gw.Do(ctx, connection.Request{Method: http.MethodDelete, Path: txPath(walletID, txID)}, nil)
}

func txPath(walletID, txID uint) string {
	if txID == 0 {
		return fmt.Sprintf("/api/wallets/%d/transactions", walletID)
	}
	return fmt.Sprintf("/api/wallets/%d/transactions/%d", walletID, txID)
}
