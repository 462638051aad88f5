package cascade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/ledger"
	"github.com/tallybook/tallybook/internal/reconcile"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cascade
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	FindTransactionByReference(ctx context.Context, t ledger.TransactionType, ref string) (*ledger.Transaction, error)
	ListEntriesForTransaction(ctx context.Context, txID uuid.UUID) ([]ledger.LedgerEntry, error)
	ListEntriesForAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.LedgerEntry, error)
	ListTransactionsByType(ctx context.Context, t ledger.TransactionType) ([]*ledger.Transaction, error)
	FindAccountByType(ctx context.Context, t ledger.AccountType) (*ledger.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)

	BeginCascade(ctx context.Context) (CascadeTx, error)
}

// CascadeTx is the atomic unit for a deletion: compensating updates, balance
// reversals and row removal either all commit or none do.
type CascadeTx interface {
	UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error
	AddToAccountBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error
	DeleteLedgerEntries(ctx context.Context, txID uuid.UUID) error
	DeleteLineItems(ctx context.Context, txID uuid.UUID) error
	DeletePaymentApplications(ctx context.Context, txID uuid.UUID) error
	DeleteTransactionRow(ctx context.Context, txID uuid.UUID) error
	Commit() error
	Rollback() error
}

// Reconciler repairs invoice balances after a deletion commits. Satisfied by
// the reconcile service.
type Reconciler interface {
	RecalculateInvoice(ctx context.Context, invoiceID uuid.UUID, opts reconcile.Options) (*ledger.Transaction, error)
}

type Service struct {
	repo       Repository
	reconciler Reconciler
	log        *slog.Logger

	handlers map[ledger.TransactionType]func(ctx context.Context, dtx CascadeTx, tx *ledger.Transaction, entries []ledger.LedgerEntry) (bool, error)
}

func NewService(repo Repository, reconciler Reconciler, log *slog.Logger) *Service {
	s := &Service{repo: repo, reconciler: reconciler, log: log}

	// Closed dispatch table over every transaction type. Types without
	// compensating work fall through to plain reversal.
	s.handlers = make(map[ledger.TransactionType]func(context.Context, CascadeTx, *ledger.Transaction, []ledger.LedgerEntry) (bool, error), len(ledger.TransactionTypes()))
	for _, t := range ledger.TransactionTypes() {
		switch t {
		case ledger.TypePayment:
			s.handlers[t] = s.deletePayment
		case ledger.TypeInvoice:
			s.handlers[t] = s.deleteInvoice
		case ledger.TypeDeposit:
			s.handlers[t] = s.deleteDeposit
		default:
			s.handlers[t] = s.deletePlain
		}
	}

	return s
}

// Delete reverses a transaction's effects and removes it. Returns false when
// the id does not resolve, or when the transaction is a deposit still locked
// by an active credit application; in both cases nothing is written.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	entries, err := s.repo.ListEntriesForTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("loading ledger entries: %w", err)
	}

	dtx, err := s.repo.BeginCascade(ctx)
	if err != nil {
		return false, fmt.Errorf("begin cascade: %w", err)
	}
	defer dtx.Rollback()

	handle, ok := s.handlers[tx.Type]
	if !ok {
		handle = s.deletePlain
	}

	proceed, err := handle(ctx, dtx, tx, entries)
	if err != nil {
		return false, err
	}

	if !proceed {
		return false, nil
	}

	if err := s.reverseAndRemove(ctx, dtx, tx, entries); err != nil {
		return false, err
	}

	if err := dtx.Commit(); err != nil {
		return false, fmt.Errorf("commit cascade: %w", err)
	}

	s.sweepReferencedInvoices(ctx, tx, entries)

	return true, nil
}

func (s *Service) deletePlain(context.Context, CascadeTx, *ledger.Transaction, []ledger.LedgerEntry) (bool, error) {
	return true, nil
}

// deletePayment restores the invoices this payment had settled and any
// deposits whose credit it had applied. A payment may have drawn on one
// deposit across several entries; the restored amount is their sum, written
// once per deposit.
func (s *Service) deletePayment(ctx context.Context, dtx CascadeTx, payment *ledger.Transaction, entries []ledger.LedgerEntry) (bool, error) {
	receivable, err := s.repo.FindAccountByType(ctx, ledger.AccountReceivable)
	if err != nil {
		return false, fmt.Errorf("resolving receivable account: %w", err)
	}

	type depositRestore struct {
		ref         string
		applied     decimal.Decimal
		invoiceRefs []string
	}

	restores := make(map[string]*depositRestore)

	var order []string

	for _, e := range entries {
		if e.AccountID == receivable.ID && e.Credit.IsPositive() {
			for _, ref := range ledger.InvoiceRefs(e.Description) {
				if err := s.restoreInvoiceExcluding(ctx, dtx, ref, payment.ID); err != nil {
					return false, err
				}
			}
		}

		depRef, ok := ledger.AppliedDepositRef(e.Description)
		if !ok || !e.Debit.IsPositive() {
			continue
		}

		key := strings.ToLower(depRef)

		r := restores[key]
		if r == nil {
			r = &depositRestore{ref: depRef, applied: decimal.Zero}
			restores[key] = r

			order = append(order, key)
		}

		r.applied = r.applied.Add(e.Debit)
		r.invoiceRefs = append(r.invoiceRefs, ledger.InvoiceRefs(e.Description)...)
	}

	for _, key := range order {
		r := restores[key]

		dep, err := s.repo.FindTransactionByReference(ctx, ledger.TypeDeposit, r.ref)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				continue
			}

			return false, fmt.Errorf("loading deposit %s: %w", r.ref, err)
		}

		if err := s.restoreDeposit(ctx, dtx, dep, r.applied, r.invoiceRefs); err != nil {
			return false, err
		}
	}

	return true, nil
}

// restoreInvoiceExcluding recomputes an invoice's balance from the receivable
// entries that will survive the deletion, excluding the payment being removed.
func (s *Service) restoreInvoiceExcluding(ctx context.Context, dtx CascadeTx, ref string, excludeTxID uuid.UUID) error {
	inv, err := s.repo.FindTransactionByReference(ctx, ledger.TypeInvoice, ref)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("loading invoice %s: %w", ref, err)
	}

	receivable, err := s.repo.FindAccountByType(ctx, ledger.AccountReceivable)
	if err != nil {
		return fmt.Errorf("resolving receivable account: %w", err)
	}

	entries, err := s.repo.ListEntriesForAccount(ctx, receivable.ID)
	if err != nil {
		return fmt.Errorf("loading receivable entries: %w", err)
	}

	applied := decimal.Zero

	for _, e := range entries {
		if e.TransactionID == inv.ID || e.TransactionID == excludeTxID {
			continue
		}

		if !ledger.MentionsReference(e.Description, inv.Reference) {
			continue
		}

		if e.Credit.IsPositive() {
			applied = applied.Add(e.Credit)
		} else if _, ok := ledger.AppliedDepositRef(e.Description); ok && e.Debit.IsPositive() {
			applied = applied.Add(e.Debit)
		}
	}

	if applied.GreaterThan(inv.Amount) {
		applied = inv.Amount
	}

	inv.Balance = inv.Amount.Sub(applied)

	inv.Status = ledger.StatusOpen
	if inv.Balance.LessThanOrEqual(decimal.Zero) {
		inv.Balance = decimal.Zero
		inv.Status = ledger.StatusCompleted
	}

	return dtx.UpdateTransaction(ctx, inv)
}

// restoreDeposit gives an applied amount back to a deposit, returns it to
// unapplied_credit status and strips the stale application clauses from its
// description.
func (s *Service) restoreDeposit(ctx context.Context, dtx CascadeTx, dep *ledger.Transaction, applied decimal.Decimal, invoiceRefs []string) error {
	dep.Balance = dep.Balance.Sub(applied)

	// An unapplied credit never carries more than its own amount.
	floor := dep.Amount.Neg()
	if dep.Balance.LessThan(floor) {
		dep.Balance = floor
	}

	dep.Status = ledger.StatusUnappliedCredit

	if len(invoiceRefs) > 0 {
		for _, ref := range invoiceRefs {
			dep.Description = ledger.StripAppliedClause(dep.Description, ref)
		}
	} else {
		for _, ac := range ledger.DepositApplications(dep.Description) {
			dep.Description = ledger.StripAppliedClause(dep.Description, ac.InvoiceRef)
		}
	}

	return dtx.UpdateTransaction(ctx, dep)
}

// deleteInvoice releases every deposit credit that had been applied to it,
// via the deposit descriptions and, as a second path, via applied-credit
// ledger entries tied to payments against the invoice.
func (s *Service) deleteInvoice(ctx context.Context, dtx CascadeTx, inv *ledger.Transaction, _ []ledger.LedgerEntry) (bool, error) {
	restored := make(map[uuid.UUID]bool)

	deposits, err := s.repo.ListTransactionsByType(ctx, ledger.TypeDeposit)
	if err != nil {
		return false, fmt.Errorf("loading deposits: %w", err)
	}

	for _, dep := range deposits {
		if !mentionsApplication(dep.Description, inv.Reference) {
			continue
		}

		restored[dep.ID] = true

		dep.Balance = dep.Amount.Neg()
		dep.Status = ledger.StatusUnappliedCredit
		dep.Description = ledger.StripAppliedClause(dep.Description, inv.Reference)

		if err := dtx.UpdateTransaction(ctx, dep); err != nil {
			return false, fmt.Errorf("restoring deposit %s: %w", dep.Reference, err)
		}
	}

	receivable, err := s.repo.FindAccountByType(ctx, ledger.AccountReceivable)
	if err != nil {
		return false, fmt.Errorf("resolving receivable account: %w", err)
	}

	entries, err := s.repo.ListEntriesForAccount(ctx, receivable.ID)
	if err != nil {
		return false, fmt.Errorf("loading receivable entries: %w", err)
	}

	for _, e := range entries {
		depRef, ok := ledger.AppliedDepositRef(e.Description)
		if !ok || !ledger.MentionsReference(e.Description, inv.Reference) {
			continue
		}

		dep, err := s.repo.FindTransactionByReference(ctx, ledger.TypeDeposit, depRef)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				continue
			}

			return false, fmt.Errorf("loading deposit %s: %w", depRef, err)
		}

		if restored[dep.ID] {
			continue
		}

		restored[dep.ID] = true

		dep.Balance = dep.Amount.Neg()
		dep.Status = ledger.StatusUnappliedCredit
		dep.Description = ledger.StripAppliedClause(dep.Description, inv.Reference)

		if err := dtx.UpdateTransaction(ctx, dep); err != nil {
			return false, fmt.Errorf("restoring deposit %s: %w", dep.Reference, err)
		}
	}

	return true, nil
}

// deleteDeposit refuses to remove a deposit whose credit is still applied
// somewhere; the applications must be reversed first.
func (s *Service) deleteDeposit(ctx context.Context, _ CascadeTx, dep *ledger.Transaction, _ []ledger.LedgerEntry) (bool, error) {
	locked, err := s.isDepositApplied(ctx, dep)
	if err != nil {
		return false, err
	}

	if locked {
		s.log.Info("refusing to delete deposit with active credit applications",
			"deposit_id", dep.ID, "reference", dep.Reference)
		return false, nil
	}

	return true, nil
}

// isDepositApplied reports whether a surviving applied-credit debit posting
// names this deposit, or the deposit's own description claims an application
// to an invoice that still exists.
func (s *Service) isDepositApplied(ctx context.Context, dep *ledger.Transaction) (bool, error) {
	receivable, err := s.repo.FindAccountByType(ctx, ledger.AccountReceivable)
	if err != nil {
		return false, fmt.Errorf("resolving receivable account: %w", err)
	}

	entries, err := s.repo.ListEntriesForAccount(ctx, receivable.ID)
	if err != nil {
		return false, fmt.Errorf("loading receivable entries: %w", err)
	}

	for _, e := range entries {
		if e.TransactionID == dep.ID || !e.Debit.IsPositive() {
			continue
		}

		if ref, ok := ledger.AppliedDepositRef(e.Description); ok && strings.EqualFold(ref, dep.Reference) {
			return true, nil
		}
	}

	for _, ac := range ledger.DepositApplications(dep.Description) {
		_, err := s.repo.FindTransactionByReference(ctx, ledger.TypeInvoice, ac.InvoiceRef)
		if err == nil {
			return true, nil
		}

		if !errors.Is(err, ledger.ErrNotFound) {
			return false, fmt.Errorf("checking invoice %s: %w", ac.InvoiceRef, err)
		}
	}

	return false, nil
}

// reverseAndRemove undoes every entry's account effect and deletes the
// transaction with its dependents.
func (s *Service) reverseAndRemove(ctx context.Context, dtx CascadeTx, tx *ledger.Transaction, entries []ledger.LedgerEntry) error {
	for _, e := range entries {
		acct, err := s.repo.GetAccount(ctx, e.AccountID)
		if err != nil {
			return fmt.Errorf("loading account %s: %w", e.AccountID, err)
		}

		delta := ledger.BalanceDelta(acct.Type, e.Debit, e.Credit)
		if delta.IsZero() {
			continue
		}

		if err := dtx.AddToAccountBalance(ctx, e.AccountID, delta.Neg()); err != nil {
			return fmt.Errorf("reversing posting to account %s: %w", e.AccountID, err)
		}
	}

	if err := dtx.DeleteLedgerEntries(ctx, tx.ID); err != nil {
		return fmt.Errorf("deleting ledger entries: %w", err)
	}

	if err := dtx.DeleteLineItems(ctx, tx.ID); err != nil {
		return fmt.Errorf("deleting line items: %w", err)
	}

	if err := dtx.DeletePaymentApplications(ctx, tx.ID); err != nil {
		return fmt.Errorf("deleting payment applications: %w", err)
	}

	if err := dtx.DeleteTransactionRow(ctx, tx.ID); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

// sweepReferencedInvoices recomputes every invoice the deleted entries
// mentioned, from the postings that remain. Runs after commit; failures are
// logged and never surfaced, the ledger rows are already consistent.
func (s *Service) sweepReferencedInvoices(ctx context.Context, tx *ledger.Transaction, entries []ledger.LedgerEntry) {
	seen := make(map[string]bool)

	for _, e := range entries {
		for _, ref := range ledger.InvoiceRefs(e.Description) {
			key := strings.ToLower(ref)
			if seen[key] {
				continue
			}

			seen[key] = true

			inv, err := s.repo.FindTransactionByReference(ctx, ledger.TypeInvoice, ref)
			if err != nil {
				if !errors.Is(err, ledger.ErrNotFound) {
					s.log.Warn("post-delete sweep lookup failed", "reference", ref, "error", err)
				}

				continue
			}

			if inv.ID == tx.ID {
				continue
			}

			if _, err := s.reconciler.RecalculateInvoice(ctx, inv.ID, reconcile.Options{Force: true}); err != nil {
				s.log.Warn("post-delete sweep recalculation failed", "invoice_id", inv.ID, "error", err)
			}
		}
	}
}

// mentionsApplication reports whether a deposit description claims an
// application to the given invoice reference.
func mentionsApplication(desc, ref string) bool {
	for _, ac := range ledger.DepositApplications(desc) {
		if strings.EqualFold(ac.InvoiceRef, ref) {
			return true
		}
	}

	return false
}
