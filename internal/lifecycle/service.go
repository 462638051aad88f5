package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=lifecycle
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error

	BeginPosting(ctx context.Context) (PostingTx, error)
}

// PostingTx is the atomic unit for creating a transaction: header, line items,
// ledger entries, explicit applications and account balance updates either all
// commit or none do.
type PostingTx interface {
	CreateTransaction(ctx context.Context, tx *ledger.Transaction) error
	CreateLineItems(ctx context.Context, items []ledger.LineItem) error
	CreateLedgerEntries(ctx context.Context, entries []ledger.LedgerEntry) error
	CreatePaymentApplications(ctx context.Context, apps []ledger.PaymentApplication) error
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	AddToAccountBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error
	Commit() error
	Rollback() error
}

// Deleter reverses a transaction's effects. Implemented by the cascade
// handler.
type Deleter interface {
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo    Repository
	deleter Deleter
}

func NewService(repo Repository, deleter Deleter) *Service {
	return &Service{repo: repo, deleter: deleter}
}

type EntryParams struct {
	AccountID   uuid.UUID
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Date        time.Time
	Description string
}

type LineItemParams struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	AccountID   *uuid.UUID
	TaxID       *uuid.UUID
	ProductID   *uuid.UUID
}

// ApplicationParams links the new transaction (or an explicit payment) to the
// invoice it satisfies. A zero PaymentID means the transaction being created.
type ApplicationParams struct {
	PaymentID uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

type CreateParams struct {
	Type          ledger.TransactionType
	Reference     string
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	Balance       *decimal.Decimal
	Status        ledger.Status
	ContactID     *uuid.UUID
	ContactName   string
	Currency      string
	ExchangeRate  decimal.Decimal
	ForeignAmount decimal.Decimal

	LineItems    []LineItemParams
	Entries      []EntryParams
	Applications []ApplicationParams
}

// Create persists a transaction together with its line items, ledger entries
// and explicit payment applications as one atomic unit, then posts each entry
// to its account's running balance.
func (s *Service) Create(ctx context.Context, params CreateParams) (*ledger.Transaction, error) {
	if len(params.Entries) == 0 {
		return nil, ledger.ErrNoLedgerEntries
	}

	entries := make([]ledger.LedgerEntry, len(params.Entries))
	for i, e := range params.Entries {
		date := e.Date
		if date.IsZero() {
			date = params.Date
		}

		entries[i] = ledger.LedgerEntry{
			AccountID:   e.AccountID,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Date:        date,
			Description: e.Description,
		}
	}

	if !ledger.EntriesBalanced(entries) {
		return nil, ledger.ErrUnbalancedEntries
	}

	tx := &ledger.Transaction{
		Type:          params.Type,
		Reference:     params.Reference,
		Date:          params.Date,
		Description:   params.Description,
		Amount:        params.Amount,
		Balance:       deriveBalance(params),
		Status:        params.Status,
		ContactID:     params.ContactID,
		ContactName:   params.ContactName,
		Currency:      params.Currency,
		ExchangeRate:  params.ExchangeRate,
		ForeignAmount: params.ForeignAmount,
	}

	ptx, err := s.repo.BeginPosting(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin posting: %w", err)
	}
	defer ptx.Rollback()

	if err := ptx.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	if len(params.LineItems) > 0 {
		items := make([]ledger.LineItem, len(params.LineItems))
		for i, li := range params.LineItems {
			items[i] = ledger.LineItem{
				TransactionID: tx.ID,
				Description:   li.Description,
				Quantity:      li.Quantity,
				UnitPrice:     li.UnitPrice,
				Amount:        li.Amount,
				AccountID:     li.AccountID,
				TaxID:         li.TaxID,
				ProductID:     li.ProductID,
			}
		}

		if err := ptx.CreateLineItems(ctx, items); err != nil {
			return nil, fmt.Errorf("creating line items: %w", err)
		}
	}

	for i := range entries {
		entries[i].TransactionID = tx.ID
	}

	if err := ptx.CreateLedgerEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("creating ledger entries: %w", err)
	}

	if len(params.Applications) > 0 {
		apps := make([]ledger.PaymentApplication, len(params.Applications))
		for i, a := range params.Applications {
			paymentID := a.PaymentID
			if paymentID == uuid.Nil {
				paymentID = tx.ID
			}

			apps[i] = ledger.PaymentApplication{
				PaymentID: paymentID,
				InvoiceID: a.InvoiceID,
				Amount:    a.Amount,
			}
		}

		if err := ptx.CreatePaymentApplications(ctx, apps); err != nil {
			return nil, fmt.Errorf("creating payment applications: %w", err)
		}
	}

	if err := postEntries(ctx, ptx, entries); err != nil {
		return nil, err
	}

	if err := ptx.Commit(); err != nil {
		return nil, fmt.Errorf("commit posting: %w", err)
	}

	return tx, nil
}

// postEntries applies each entry's computed delta to its account balance.
func postEntries(ctx context.Context, ptx PostingTx, entries []ledger.LedgerEntry) error {
	for _, e := range entries {
		acct, err := ptx.GetAccount(ctx, e.AccountID)
		if err != nil {
			return fmt.Errorf("loading account %s: %w", e.AccountID, err)
		}

		delta := ledger.BalanceDelta(acct.Type, e.Debit, e.Credit)
		if delta.IsZero() {
			continue
		}

		if err := ptx.AddToAccountBalance(ctx, e.AccountID, delta); err != nil {
			return fmt.Errorf("posting to account %s: %w", e.AccountID, err)
		}
	}

	return nil
}

// deriveBalance fills in the outstanding balance when the caller left it
// implicit: the full amount for receivables/payables, the negated amount for a
// deposit held as an unapplied credit, zero otherwise.
func deriveBalance(params CreateParams) decimal.Decimal {
	if params.Balance != nil {
		return *params.Balance
	}

	switch {
	case params.Type == ledger.TypeInvoice || params.Type == ledger.TypeBill:
		return params.Amount
	case params.Type == ledger.TypeDeposit && params.Status == ledger.StatusUnappliedCredit:
		return params.Amount.Neg()
	default:
		return decimal.Zero
	}
}

type UpdateParams struct {
	Reference   *string
	Date        *time.Time
	Description *string
	Amount      *decimal.Decimal
	Balance     *decimal.Decimal
	Status      *ledger.Status
	ContactName *string
}

// Update applies a partial field set to an existing transaction. A deposit in
// unapplied_credit status whose amount changes without an explicit balance has
// its balance re-pinned to the negative of the new amount.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*ledger.Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Reference != nil {
		tx.Reference = *params.Reference
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount

		if params.Balance == nil && tx.Type == ledger.TypeDeposit && tx.Status == ledger.StatusUnappliedCredit {
			tx.Balance = params.Amount.Neg()
		}
	}

	if params.Balance != nil {
		tx.Balance = *params.Balance
	}

	if params.Status != nil {
		tx.Status = *params.Status
	}

	if params.ContactName != nil {
		tx.ContactName = *params.ContactName
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	return tx, nil
}

// Delete reverses and removes a transaction. Returns false when the id does
// not resolve or the transaction is a deposit still locked by an active credit
// application.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleter.Delete(ctx, id)
}
