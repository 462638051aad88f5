package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the normal balance side of an account.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountReceivable            AccountType = "receivable"
	AccountPayable               AccountType = "payable"
	AccountBank                  AccountType = "bank"
	AccountOtherCurrentAsset     AccountType = "other_current_asset"
	AccountFixedAsset            AccountType = "fixed_asset"
	AccountLongTermAsset         AccountType = "long_term_asset"
	AccountCreditCard            AccountType = "credit_card"
	AccountOtherCurrentLiability AccountType = "other_current_liability"
	AccountLongTermLiability     AccountType = "long_term_liability"
	AccountEquity                AccountType = "equity"
	AccountIncome                AccountType = "income"
	AccountOtherIncome           AccountType = "other_income"
	AccountCostOfGoodsSold       AccountType = "cost_of_goods_sold"
	AccountExpense               AccountType = "expense"
	AccountOtherExpense          AccountType = "other_expense"
)

// NormalSide reports whether the account type increases on debit or credit.
// Asset and expense accounts increase on debit; liability, equity and income
// accounts increase on credit.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountReceivable, AccountBank, AccountOtherCurrentAsset,
		AccountFixedAsset, AccountLongTermAsset,
		AccountCostOfGoodsSold, AccountExpense, AccountOtherExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// BalanceDelta is the signed change a posting makes to an account's running
// balance: debit−credit on debit-normal accounts, credit−debit otherwise.
func BalanceDelta(t AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if t.NormalSide() == SideDebit {
		return debit.Sub(credit)
	}

	return credit.Sub(debit)
}

// Account represents a chart-of-accounts record with its running balance.
type Account struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// TransactionType is the kind of source document a transaction records.
type TransactionType string

const (
	TypeInvoice        TransactionType = "invoice"
	TypeBill           TransactionType = "bill"
	TypePayment        TransactionType = "payment"
	TypeExpense        TransactionType = "expense"
	TypeDeposit        TransactionType = "deposit"
	TypeCheque         TransactionType = "cheque"
	TypeJournalEntry   TransactionType = "journal_entry"
	TypeSalesReceipt   TransactionType = "sales_receipt"
	TypeTransfer       TransactionType = "transfer"
	TypeCustomerCredit TransactionType = "customer_credit"
	TypeVendorCredit   TransactionType = "vendor_credit"
)

// TransactionTypes is the closed set of transaction types. Dispatch tables
// range over it so a newly added type cannot be silently skipped.
func TransactionTypes() []TransactionType {
	return []TransactionType{
		TypeInvoice, TypeBill, TypePayment, TypeExpense, TypeDeposit,
		TypeCheque, TypeJournalEntry, TypeSalesReceipt, TypeTransfer,
		TypeCustomerCredit, TypeVendorCredit,
	}
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusOpen            Status = "open"
	StatusPartial         Status = "partial"
	StatusOverdue         Status = "overdue"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusUnappliedCredit Status = "unapplied_credit"
	StatusDraft           Status = "draft"
	StatusQuotation       Status = "quotation"
	StatusApproved        Status = "approved"
	StatusPaid            Status = "paid"
)

// Transaction represents a recorded financial transaction in home currency.
// Balance is the outstanding amount; it is meaningful for invoices, bills and
// deposits held as unapplied credits (where it is the negative of the
// remaining credit).
type Transaction struct {
	ID            uuid.UUID
	Type          TransactionType
	Reference     string
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	Status        Status
	ContactID     *uuid.UUID
	ContactName   string
	Currency      string
	ExchangeRate  decimal.Decimal
	ForeignAmount decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// LineItem is one line of a transaction. Created with the transaction and
// never mutated independently.
type LineItem struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Amount        decimal.Decimal
	AccountID     *uuid.UUID
	TaxID         *uuid.UUID
	ProductID     *uuid.UUID
}

// LedgerEntry is a single debit-or-credit posting against one account,
// belonging to exactly one transaction.
type LedgerEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Date          time.Time
	Description   string
}

// PaymentApplication is the explicit link recording how much of an invoice or
// bill a payment satisfied. It is the preferred join key; free-text evidence
// in descriptions remains only as a fallback for legacy rows.
type PaymentApplication struct {
	ID        uuid.UUID
	PaymentID uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// ImportedStatus is the match state of a bank-feed row.
type ImportedStatus string

const (
	ImportedUnmatched ImportedStatus = "unmatched"
	ImportedMatched   ImportedStatus = "matched"
	ImportedIgnored   ImportedStatus = "ignored"
)

// ImportedTransaction is a bank-feed row persisted by an upstream collaborator
// and consumed read-only by the matcher. Amount is signed: positive for money
// in, negative for money out.
type ImportedTransaction struct {
	ID          uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Payee       string
	Description string
	Status      ImportedStatus
}

// Epsilon is the tolerance used for ledger amount comparisons.
var Epsilon = decimal.NewFromFloat(0.01)

// EntriesBalanced reports whether debits equal credits across the entries,
// within Epsilon.
func EntriesBalanced(entries []LedgerEntry) bool {
	debits := decimal.Zero
	credits := decimal.Zero

	for _, e := range entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}

	return debits.Sub(credits).Abs().LessThanOrEqual(Epsilon)
}
