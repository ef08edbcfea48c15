package domain

import (
	"strings"
	"time"
)

// Wallet is a named savings goal.
type Wallet struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Target    string    `json:"target"`
	Goal      float64   `json:"goal"`
	UserID    uint      `json:"userId,omitempty" table:"wide"`
	CreatedAt time.Time `json:"createdAt" table:"wide"`
}

// WalletInput is the body of POST /api/wallets.
type WalletInput struct {
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Target string  `json:"target"`
	Goal   float64 `json:"goal"`
}

// Validate checks the wallet form fields.
func (in WalletInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrWalletNameRequired
	}
	if in.Goal < 0 {
		return ErrWalletGoalNegative
	}
	return nil
}

// WalletPatch is the body of PUT /api/wallets/:id. Only set fields are sent.
type WalletPatch struct {
	Name   *string  `json:"name,omitempty"`
	Code   *string  `json:"code,omitempty"`
	Target *string  `json:"target,omitempty"`
	Goal   *float64 `json:"goal,omitempty"`
}

// Validate checks the fields that are present.
func (p WalletPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrWalletNameRequired
	}
	if p.Goal != nil && *p.Goal < 0 {
		return ErrWalletGoalNegative
	}
	return nil
}

// IsEmpty reports whether the patch carries no field.
func (p WalletPatch) IsEmpty() bool {
	return p.Name == nil && p.Code == nil && p.Target == nil && p.Goal == nil
}
