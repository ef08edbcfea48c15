package domain

import (
	"strings"
	"time"
)

// TransactionType distinguishes income from expense entries.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the wire format of Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is a dated income or expense entry attributed to a wallet.
type Transaction struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Type      TransactionType `json:"type"`
	Amount    float64         `json:"amount"`
	Date      string          `json:"date"`
	Category  string          `json:"category"`
	Desc      string          `json:"desc" table:"wide"`
	Status    bool            `json:"status" table:"wide"`
	WalletID  uint            `json:"walletId" table:"wide"`
	UserID    uint            `json:"userId" table:"wide"`
	CreatedAt time.Time       `json:"createdAt" table:"wide"`
}

// TransactionInput is the body of POST /api/wallets/:id/transactions.
type TransactionInput struct {
	Title    string          `json:"title"`
	Type     TransactionType `json:"type"`
	Amount   float64         `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Desc     string          `json:"desc"`
}

// Validate checks the transaction form fields.
func (in TransactionInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTxTitleRequired
	}
	if err := in.Type.Validate(); err != nil {
		return err
	}
	if in.Amount <= 0 {
		return ErrTxAmountInvalid
	}
	return validateDate(in.Date)
}

// TransactionPatch is the body of PUT /api/wallets/:id/transactions/:tid.
type TransactionPatch struct {
	Title    *string          `json:"title,omitempty"`
	Type     *TransactionType `json:"type,omitempty"`
	Amount   *float64         `json:"amount,omitempty"`
	Date     *string          `json:"date,omitempty"`
	Category *string          `json:"category,omitempty"`
	Desc     *string          `json:"desc,omitempty"`
}

// Validate checks the fields that are present.
func (p TransactionPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTxTitleRequired
	}
	if p.Type != nil {
		if err := p.Type.Validate(); err != nil {
			return err
		}
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return ErrTxAmountInvalid
	}
	if p.Date != nil {
		return validateDate(*p.Date)
	}
	return nil
}

// Validate checks that t is income or expense.
func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrTxTypeInvalid.WithDetails(string(t))
	}
}

func validateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrTxDateInvalid.WithCause(err)
	}
	return nil
}
