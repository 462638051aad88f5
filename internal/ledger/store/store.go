package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/cascade"
	"github.com/tallybook/tallybook/internal/ledger"
	"github.com/tallybook/tallybook/internal/lifecycle"
)

// Store is the Postgres persistence layer for the ledger. It carries no
// business rules; balance arithmetic lives in the services.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.type, t.reference, t.date, t.description, t.amount, t.balance,
	t.status, t.contact_id, t.contact_name, t.currency, t.exchange_rate,
	t.foreign_amount, t.created_at, t.updated_at
`

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var typeStr, statusStr string

	var contactName, currency sql.NullString

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.Reference, &tx.Date, &tx.Description,
		&tx.Amount, &tx.Balance, &statusStr, &tx.ContactID, &contactName,
		&currency, &tx.ExchangeRate, &tx.ForeignAmount,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = ledger.TransactionType(typeStr)
	tx.Status = ledger.Status(statusStr)
	tx.ContactName = contactName.String
	tx.Currency = currency.String

	return &tx, nil
}

func getTransaction(ctx context.Context, q querier, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE t.id = $1`

	tx, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return getTransaction(ctx, s.db, id)
}

// FindTransactionByReference returns the most recent transaction of the given
// type carrying the reference. References are free text and not guaranteed
// unique; newest wins.
func (s *Store) FindTransactionByReference(ctx context.Context, t ledger.TransactionType, ref string) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.type = $1 AND LOWER(t.reference) = LOWER($2)
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT 1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, t, ref))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("finding transaction by reference: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactionsByType(ctx context.Context, t ledger.TransactionType) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.type = $1
		ORDER BY t.date DESC, t.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, t)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListCandidates returns transactions of any of the given types, optionally
// restricted to the given statuses, dated within [from, to].
func (s *Store) ListCandidates(ctx context.Context, types []ledger.TransactionType, statuses []ledger.Status, from, to time.Time) ([]*ledger.Transaction, error) {
	if len(types) == 0 {
		return nil, nil
	}

	var args []any

	argIdx := 1

	placeholders := make([]string, len(types))
	for i, t := range types {
		placeholders[i] = fmt.Sprintf("$%d", argIdx)

		args = append(args, t)
		argIdx++
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.type IN (` + strings.Join(placeholders, ", ") + `)`

	if len(statuses) > 0 {
		sp := make([]string, len(statuses))
		for i, st := range statuses {
			sp[i] = fmt.Sprintf("$%d", argIdx)

			args = append(args, st)
			argIdx++
		}

		query += ` AND t.status IN (` + strings.Join(sp, ", ") + `)`
	}

	query += fmt.Sprintf(" AND t.date >= $%d AND t.date <= $%d", argIdx, argIdx+1)
	args = append(args, from, to)

	query += " ORDER BY t.date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]*ledger.Transaction, error) {
	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func updateTransaction(ctx context.Context, q querier, tx *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET reference = $1, date = $2, description = $3, amount = $4,
			balance = $5, status = $6, contact_name = $7, updated_at = NOW()
		WHERE id = $8
	`

	_, err := q.ExecContext(ctx, query,
		tx.Reference,
		tx.Date,
		tx.Description,
		tx.Amount,
		tx.Balance,
		tx.Status,
		tx.ContactName,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return updateTransaction(ctx, s.db, tx)
}

func (s *Store) UpdateTransactionBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status ledger.Status) error {
	query := `
		UPDATE transactions
		SET balance = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`

	_, err := s.db.ExecContext(ctx, query, balance, status, id)
	if err != nil {
		return fmt.Errorf("updating transaction balance: %w", err)
	}

	return nil
}

const selectAccountColumns = `a.id, a.code, a.name, a.type, a.balance, a.active, a.created_at, a.updated_at`

func scanAccount(s scanner) (*ledger.Account, error) {
	var acct ledger.Account

	var typeStr string

	if err := s.Scan(
		&acct.ID, &acct.Code, &acct.Name, &typeStr, &acct.Balance,
		&acct.Active, &acct.CreatedAt, &acct.UpdatedAt,
	); err != nil {
		return nil, err
	}

	acct.Type = ledger.AccountType(typeStr)

	return &acct, nil
}

func getAccount(ctx context.Context, q querier, id uuid.UUID) (*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a WHERE a.id = $1`

	acct, err := scanAccount(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return acct, nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return getAccount(ctx, s.db, id)
}

func (s *Store) GetAccountByCode(ctx context.Context, code string) (*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a WHERE a.code = $1`

	acct, err := scanAccount(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting account by code: %w", err)
	}

	return acct, nil
}

// FindAccountByType returns the active account of the given type. Control
// accounts (receivable, payable) are expected to be singular per book; the
// lowest code wins if more than one exists.
func (s *Store) FindAccountByType(ctx context.Context, t ledger.AccountType) (*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + `
		FROM accounts a
		WHERE a.type = $1 AND a.active
		ORDER BY a.code ASC
		LIMIT 1`

	acct, err := scanAccount(s.db.QueryRowContext(ctx, query, t))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("finding account by type: %w", err)
	}

	return acct, nil
}

func (s *Store) CreateAccount(ctx context.Context, acct *ledger.Account) error {
	query := `
		INSERT INTO accounts (code, name, type, balance, active, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		acct.Code,
		acct.Name,
		acct.Type,
		acct.Balance,
		acct.Active,
	).Scan(&acct.ID, &acct.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

const selectEntryColumns = `e.id, e.transaction_id, e.account_id, e.debit, e.credit, e.date, e.description`

func scanEntry(s scanner) (ledger.LedgerEntry, error) {
	var e ledger.LedgerEntry

	err := s.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Debit, &e.Credit, &e.Date, &e.Description)

	return e, err
}

func listEntries(ctx context.Context, q querier, query string, args ...any) ([]ledger.LedgerEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.LedgerEntry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger entry rows: %w", err)
	}

	return entries, nil
}

func (s *Store) ListEntriesForTransaction(ctx context.Context, txID uuid.UUID) ([]ledger.LedgerEntry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries e
		WHERE e.transaction_id = $1
		ORDER BY e.date ASC`

	return listEntries(ctx, s.db, query, txID)
}

func (s *Store) ListEntriesForAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.LedgerEntry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries e
		WHERE e.account_id = $1
		ORDER BY e.date ASC`

	return listEntries(ctx, s.db, query, accountID)
}

func (s *Store) ListEntriesInRange(ctx context.Context, from, to time.Time) ([]ledger.LedgerEntry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries e
		WHERE e.date >= $1 AND e.date <= $2
		ORDER BY e.date ASC`

	return listEntries(ctx, s.db, query, from, to)
}

// ListApplicationsForInvoice returns the explicit payment applications
// targeting an invoice or bill.
func (s *Store) ListApplicationsForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ledger.PaymentApplication, error) {
	query := `
		SELECT p.id, p.payment_id, p.invoice_id, p.amount, p.created_at
		FROM payment_applications p
		WHERE p.invoice_id = $1
		ORDER BY p.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing payment applications: %w", err)
	}
	defer rows.Close()

	var apps []ledger.PaymentApplication

	for rows.Next() {
		var a ledger.PaymentApplication
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.InvoiceID, &a.Amount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment application: %w", err)
		}

		apps = append(apps, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment application rows: %w", err)
	}

	return apps, nil
}

func (s *Store) GetImportedTransaction(ctx context.Context, id uuid.UUID) (*ledger.ImportedTransaction, error) {
	query := `
		SELECT i.id, i.date, i.amount, i.payee, i.description, i.status
		FROM imported_transactions i
		WHERE i.id = $1
	`

	var row ledger.ImportedTransaction

	var statusStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID, &row.Date, &row.Amount, &row.Payee, &row.Description, &statusStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting imported transaction: %w", err)
	}

	row.Status = ledger.ImportedStatus(statusStr)

	return &row, nil
}

// storeTx is the shared atomic unit behind BeginPosting and BeginCascade.
type storeTx struct {
	tx *sql.Tx
}

func (s *Store) BeginPosting(ctx context.Context) (lifecycle.PostingTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning posting tx: %w", err)
	}

	return &storeTx{tx: tx}, nil
}

func (s *Store) BeginCascade(ctx context.Context) (cascade.CascadeTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning cascade tx: %w", err)
	}

	return &storeTx{tx: tx}, nil
}

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }

func (t *storeTx) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (type, reference, date, description, amount, balance,
			status, contact_id, contact_name, currency, exchange_rate, foreign_amount,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		tx.Type,
		tx.Reference,
		tx.Date,
		tx.Description,
		tx.Amount,
		tx.Balance,
		tx.Status,
		tx.ContactID,
		tx.ContactName,
		tx.Currency,
		tx.ExchangeRate,
		tx.ForeignAmount,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (t *storeTx) CreateLineItems(ctx context.Context, items []ledger.LineItem) error {
	query := `
		INSERT INTO line_items (transaction_id, description, quantity, unit_price,
			amount, account_id, tax_id, product_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	for i := range items {
		err := t.tx.QueryRowContext(ctx, query,
			items[i].TransactionID,
			items[i].Description,
			items[i].Quantity,
			items[i].UnitPrice,
			items[i].Amount,
			items[i].AccountID,
			items[i].TaxID,
			items[i].ProductID,
		).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("creating line item: %w", err)
		}
	}

	return nil
}

func (t *storeTx) CreateLedgerEntries(ctx context.Context, entries []ledger.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (transaction_id, account_id, debit, credit, date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range entries {
		err := t.tx.QueryRowContext(ctx, query,
			entries[i].TransactionID,
			entries[i].AccountID,
			entries[i].Debit,
			entries[i].Credit,
			entries[i].Date,
			entries[i].Description,
		).Scan(&entries[i].ID)
		if err != nil {
			return fmt.Errorf("creating ledger entry: %w", err)
		}
	}

	return nil
}

func (t *storeTx) CreatePaymentApplications(ctx context.Context, apps []ledger.PaymentApplication) error {
	query := `
		INSERT INTO payment_applications (payment_id, invoice_id, amount, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	for i := range apps {
		err := t.tx.QueryRowContext(ctx, query,
			apps[i].PaymentID,
			apps[i].InvoiceID,
			apps[i].Amount,
		).Scan(&apps[i].ID, &apps[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("creating payment application: %w", err)
		}
	}

	return nil
}

func (t *storeTx) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return getAccount(ctx, t.tx, id)
}

func (t *storeTx) AddToAccountBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := t.tx.ExecContext(ctx, query, delta, accountID)
	if err != nil {
		return fmt.Errorf("adjusting account balance: %w", err)
	}

	return nil
}

func (t *storeTx) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return updateTransaction(ctx, t.tx, tx)
}

func (t *storeTx) DeleteLedgerEntries(ctx context.Context, txID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE transaction_id = $1`, txID)
	if err != nil {
		return fmt.Errorf("deleting ledger entries: %w", err)
	}

	return nil
}

func (t *storeTx) DeleteLineItems(ctx context.Context, txID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM line_items WHERE transaction_id = $1`, txID)
	if err != nil {
		return fmt.Errorf("deleting line items: %w", err)
	}

	return nil
}

func (t *storeTx) DeletePaymentApplications(ctx context.Context, txID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM payment_applications WHERE payment_id = $1 OR invoice_id = $1`, txID)
	if err != nil {
		return fmt.Errorf("deleting payment applications: %w", err)
	}

	return nil
}

func (t *storeTx) DeleteTransactionRow(ctx context.Context, txID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, txID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}
