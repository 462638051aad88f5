package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/ledger"
)

type transactionResponse struct {
	ID          uuid.UUID              `json:"id"`
	Type        ledger.TransactionType `json:"type"`
	Reference   string                 `json:"reference,omitempty"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description,omitempty"`
	Amount      decimal.Decimal        `json:"amount"`
	Balance     decimal.Decimal        `json:"balance"`
	Status      ledger.Status          `json:"status"`
	ContactID   *uuid.UUID             `json:"contact_id,omitempty"`
	ContactName string                 `json:"contact_name,omitempty"`
	Currency    string                 `json:"currency,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Reference:   tx.Reference,
		Date:        tx.Date,
		Description: tx.Description,
		Amount:      tx.Amount,
		Balance:     tx.Balance,
		Status:      tx.Status,
		ContactID:   tx.ContactID,
		ContactName: tx.ContactName,
		Currency:    tx.Currency,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}
