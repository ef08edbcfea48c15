package domain

import (
	"strings"
	"time"
)

// Permission is the access level granted by a share.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// ShareStatus is the lifecycle state of a share.
type ShareStatus string

const (
	SharePending  ShareStatus = "pending"
	ShareAccepted ShareStatus = "accepted"
	ShareRejected ShareStatus = "rejected"
)

// Party is the public part of a user embedded in a share.
type Party struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WalletShare is a grant of access to a wallet, owner to recipient.
type WalletShare struct {
	ID           uint        `json:"id"`
	WalletID     uint        `json:"wallet_id"`
	OwnerID      uint        `json:"owner_id"`
	SharedWithID uint        `json:"shared_with_id"`
	Permission   Permission  `json:"permission"`
	Status       ShareStatus `json:"status"`
	Wallet       Wallet      `json:"wallet"`
	Owner        Party       `json:"owner"`
	SharedWith   Party       `json:"sharedWith"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// ShareRequest is the body of POST /api/wallets/:id/share.
type ShareRequest struct {
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
}

// Validate checks the share form fields.
func (r ShareRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrShareEmailRequired
	}
	switch r.Permission {
	case PermissionRead, PermissionWrite:
		return nil
	default:
		return ErrSharePermission.WithDetails(string(r.Permission))
	}
}

// ValidateResponse checks a recipient's answer to a pending share.
func ValidateResponse(status ShareStatus) error {
	switch status {
	case ShareAccepted, ShareRejected:
		return nil
	default:
		return ErrShareStatusInvalid.WithDetails(string(status))
	}
}
