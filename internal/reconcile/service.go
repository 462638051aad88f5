package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reconcile
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	FindAccountByType(ctx context.Context, t ledger.AccountType) (*ledger.Account, error)
	ListEntriesForAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.LedgerEntry, error)
	ListApplicationsForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ledger.PaymentApplication, error)
	ListTransactionsByType(ctx context.Context, t ledger.TransactionType) ([]*ledger.Transaction, error)
	UpdateTransactionBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status ledger.Status) error
}

// Options tunes a recalculation. LedgerOnly restricts the evidence to explicit
// applications and ledger entries, skipping deposit-description clauses; it is
// used while a payment is being edited to avoid double counting against live
// user input. Force persists the result even when nothing changed.
type Options struct {
	Force      bool
	LedgerOnly bool
}

type Service struct {
	repo     Repository
	warnings ledger.WarningSink
}

func NewService(repo Repository, warnings ledger.WarningSink) *Service {
	return &Service{repo: repo, warnings: warnings}
}

// RecalculateInvoice recomputes how much of an invoice remains unpaid from
// explicit payment applications plus the ledger and description evidence that
// references it, clamps the result into [0, amount], and persists balance and
// status when they changed.
func (s *Service) RecalculateInvoice(ctx context.Context, invoiceID uuid.UUID, opts Options) (*ledger.Transaction, error) {
	inv, err := s.repo.GetTransaction(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if inv.Type != ledger.TypeInvoice {
		return nil, fmt.Errorf("transaction %s is %s, not an invoice: %w", invoiceID, inv.Type, ledger.ErrNotFound)
	}

	receivable, err := s.repo.FindAccountByType(ctx, ledger.AccountReceivable)
	if err != nil {
		return nil, fmt.Errorf("resolving receivable account: %w", err)
	}

	entries, err := s.repo.ListEntriesForAccount(ctx, receivable.ID)
	if err != nil {
		return nil, fmt.Errorf("loading receivable entries: %w", err)
	}

	apps, err := s.repo.ListApplicationsForInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("loading payment applications: %w", err)
	}

	// Explicit applications are the source of truth; their owning payments
	// are excluded from the text scan below so nothing counts twice.
	applied := decimal.Zero
	appliedBy := make(map[uuid.UUID]bool, len(apps))

	for _, a := range apps {
		applied = applied.Add(a.Amount)
		appliedBy[a.PaymentID] = true
	}

	// Payment credits and applied-deposit debits posted to the receivable
	// account whose descriptions reference this invoice.
	countedDeposits := make(map[string]bool)

	for _, e := range entries {
		if e.TransactionID == inv.ID || appliedBy[e.TransactionID] {
			continue
		}

		if !ledger.MentionsReference(e.Description, inv.Reference) {
			continue
		}

		if e.Credit.IsPositive() {
			applied = applied.Add(e.Credit)
			continue
		}

		if dep, ok := ledger.AppliedDepositRef(e.Description); ok && e.Debit.IsPositive() {
			applied = applied.Add(e.Debit)
			countedDeposits[strings.ToLower(dep)] = true
		}
	}

	// Deposit descriptions stating an application to this invoice, newest
	// first, capped by the residual need. Skipped in LedgerOnly mode and for
	// deposits already counted via ledger entries.
	if !opts.LedgerOnly {
		residual := inv.Amount.Sub(applied)
		if residual.IsPositive() {
			applied = applied.Add(s.depositDescriptionCredits(ctx, inv, countedDeposits, residual))
		}
	}

	if applied.GreaterThan(inv.Amount) {
		s.warnings.Record(ledger.Warning{
			Kind:          ledger.WarnOverApplied,
			TransactionID: inv.ID,
			Reference:     inv.Reference,
			Observed:      applied,
			Cap:           inv.Amount,
			Detail:        "applied credits exceed invoice amount; capping",
		})

		applied = inv.Amount
	}

	remaining := inv.Amount.Sub(applied)
	if remaining.IsNegative() {
		s.warnings.Record(ledger.Warning{
			Kind:          ledger.WarnNegativeBalance,
			TransactionID: inv.ID,
			Reference:     inv.Reference,
			Observed:      remaining,
			Cap:           decimal.Zero,
			Detail:        "invoice balance would go negative; flooring at zero",
		})

		remaining = decimal.Zero
	}

	status := ledger.StatusOpen
	if remaining.LessThanOrEqual(decimal.Zero) {
		status = ledger.StatusCompleted
	}

	if opts.Force || !inv.Balance.Equal(remaining) || inv.Status != status {
		if err := s.repo.UpdateTransactionBalance(ctx, inv.ID, remaining, status); err != nil {
			return nil, fmt.Errorf("persisting invoice balance: %w", err)
		}
	}

	inv.Balance = remaining
	inv.Status = status

	return inv, nil
}

// depositDescriptionCredits sums applied-credit clauses found on deposit
// descriptions that reference the invoice, newest deposit first, never
// exceeding the residual need.
func (s *Service) depositDescriptionCredits(ctx context.Context, inv *ledger.Transaction, counted map[string]bool, residual decimal.Decimal) decimal.Decimal {
	deposits, err := s.repo.ListTransactionsByType(ctx, ledger.TypeDeposit)
	if err != nil {
		// Description evidence is a fallback path; a failed scan leaves
		// the ledger-derived total standing.
		return decimal.Zero
	}

	sort.SliceStable(deposits, func(i, j int) bool {
		return deposits[i].Date.After(deposits[j].Date)
	})

	total := decimal.Zero

	for _, dep := range deposits {
		if !residual.IsPositive() {
			break
		}

		if counted[strings.ToLower(dep.Reference)] {
			continue
		}

		for _, ac := range ledger.DepositApplications(dep.Description) {
			if !strings.EqualFold(ac.InvoiceRef, inv.Reference) {
				continue
			}

			amount := dep.Amount
			if ac.HasAmount {
				amount = ac.Amount
			}

			if amount.GreaterThan(residual) {
				amount = residual
			}

			total = total.Add(amount)
			residual = residual.Sub(amount)

			break
		}
	}

	return total
}

// RecalculateBill mirrors RecalculateInvoice for payables: outstanding balance
// is the bill's credits to the payable account minus the payment debits that
// reference it, completed when within Epsilon of zero.
func (s *Service) RecalculateBill(ctx context.Context, billID uuid.UUID) (*ledger.Transaction, error) {
	bill, err := s.repo.GetTransaction(ctx, billID)
	if err != nil {
		return nil, err
	}

	if bill.Type != ledger.TypeBill {
		return nil, fmt.Errorf("transaction %s is %s, not a bill: %w", billID, bill.Type, ledger.ErrNotFound)
	}

	payable, err := s.repo.FindAccountByType(ctx, ledger.AccountPayable)
	if err != nil {
		return nil, fmt.Errorf("resolving payable account: %w", err)
	}

	entries, err := s.repo.ListEntriesForAccount(ctx, payable.ID)
	if err != nil {
		return nil, fmt.Errorf("loading payable entries: %w", err)
	}

	apps, err := s.repo.ListApplicationsForInvoice(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("loading payment applications: %w", err)
	}

	paid := decimal.Zero
	appliedBy := make(map[uuid.UUID]bool, len(apps))

	for _, a := range apps {
		paid = paid.Add(a.Amount)
		appliedBy[a.PaymentID] = true
	}

	billed := decimal.Zero

	for _, e := range entries {
		if e.TransactionID == bill.ID {
			billed = billed.Add(e.Credit)
			continue
		}

		if appliedBy[e.TransactionID] || !ledger.MentionsReference(e.Description, bill.Reference) {
			continue
		}

		paid = paid.Add(e.Debit)
	}

	if paid.GreaterThan(bill.Amount) {
		s.warnings.Record(ledger.Warning{
			Kind:          ledger.WarnOverApplied,
			TransactionID: bill.ID,
			Reference:     bill.Reference,
			Observed:      paid,
			Cap:           bill.Amount,
			Detail:        "payments exceed bill amount; capping",
		})

		paid = bill.Amount
	}

	remaining := billed.Sub(paid)

	if remaining.IsNegative() {
		s.warnings.Record(ledger.Warning{
			Kind:          ledger.WarnNegativeBalance,
			TransactionID: bill.ID,
			Reference:     bill.Reference,
			Observed:      remaining,
			Cap:           decimal.Zero,
			Detail:        "bill balance would go negative; flooring at zero",
		})

		remaining = decimal.Zero
	}

	status := ledger.StatusOpen
	if remaining.Abs().LessThanOrEqual(ledger.Epsilon) {
		remaining = decimal.Zero
		status = ledger.StatusCompleted
	}

	if !bill.Balance.Equal(remaining) || bill.Status != status {
		if err := s.repo.UpdateTransactionBalance(ctx, bill.ID, remaining, status); err != nil {
			return nil, fmt.Errorf("persisting bill balance: %w", err)
		}
	}

	bill.Balance = remaining
	bill.Status = status

	return bill, nil
}
