package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tallybook/tallybook/internal/ledger"
	"github.com/tallybook/tallybook/internal/reconcile"
)

// recordingSink captures integrity warnings for assertions.
type recordingSink struct {
	warnings []ledger.Warning
}

func (s *recordingSink) Record(w ledger.Warning) {
	s.warnings = append(s.warnings, w)
}

type invoiceFixture struct {
	invoice  *ledger.Transaction
	recvID   uuid.UUID
	entries  []ledger.LedgerEntry
	apps     []ledger.PaymentApplication
	deposits []*ledger.Transaction
}

func newInvoiceFixture(amount, balance string) *invoiceFixture {
	return &invoiceFixture{
		invoice: &ledger.Transaction{
			ID:        uuid.New(),
			Type:      ledger.TypeInvoice,
			Reference: "INV-1001",
			Date:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Amount:    decimal.RequireFromString(amount),
			Balance:   decimal.RequireFromString(balance),
			Status:    ledger.StatusOpen,
		},
		recvID: uuid.New(),
	}
}

func (f *invoiceFixture) expect(repo *reconcile.MockRepository, withDepositScan bool) {
	repo.EXPECT().GetTransaction(gomock.Any(), f.invoice.ID).Return(f.invoice, nil)
	repo.EXPECT().
		FindAccountByType(gomock.Any(), ledger.AccountReceivable).
		Return(&ledger.Account{ID: f.recvID, Type: ledger.AccountReceivable}, nil)
	repo.EXPECT().ListEntriesForAccount(gomock.Any(), f.recvID).Return(f.entries, nil)
	repo.EXPECT().ListApplicationsForInvoice(gomock.Any(), f.invoice.ID).Return(f.apps, nil)

	if withDepositScan {
		repo.EXPECT().ListTransactionsByType(gomock.Any(), ledger.TypeDeposit).Return(f.deposits, nil)
	}
}

func TestService_RecalculateInvoice_PartialPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("1050", "1050")
	f.entries = []ledger.LedgerEntry{
		{
			ID:            uuid.New(),
			TransactionID: uuid.New(),
			AccountID:     f.recvID,
			Credit:        decimal.RequireFromString("435"),
			Description:   "Payment received for invoice #INV-1001",
		},
	}
	f.expect(repo, true)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusOpen).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal, _ ledger.Status) error {
			assert.True(t, balance.Equal(decimal.RequireFromString("615")), "balance %s", balance)
			return nil
		})

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("615")))
	assert.Equal(t, ledger.StatusOpen, got.Status)
	assert.Empty(t, sink.warnings)
}

func TestService_RecalculateInvoice_FullPaymentCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("1050", "1050")
	f.entries = []ledger.LedgerEntry{
		{
			TransactionID: uuid.New(),
			AccountID:     f.recvID,
			Credit:        decimal.RequireFromString("1050"),
			Description:   "Payment for invoice #INV-1001",
		},
	}
	// fully covered by the ledger: no deposit scan
	f.expect(repo, false)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusCompleted).
		Return(nil)

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, ledger.StatusCompleted, got.Status)
	assert.Empty(t, sink.warnings)
}

func TestService_RecalculateInvoice_OverAppliedClamps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("500", "500")
	f.entries = []ledger.LedgerEntry{
		{
			TransactionID: uuid.New(),
			AccountID:     f.recvID,
			Credit:        decimal.RequireFromString("600"),
			Description:   "Payment for invoice #INV-1001",
		},
	}
	f.expect(repo, false)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusCompleted).
		Return(nil)

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, ledger.StatusCompleted, got.Status)

	require.Len(t, sink.warnings, 1)
	w := sink.warnings[0]
	assert.Equal(t, ledger.WarnOverApplied, w.Kind)
	assert.Equal(t, f.invoice.ID, w.TransactionID)
	assert.True(t, w.Observed.Equal(decimal.RequireFromString("600")))
	assert.True(t, w.Cap.Equal(decimal.RequireFromString("500")))
}

func TestService_RecalculateInvoice_ExplicitApplicationsExcludeOwningPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	paymentID := uuid.New()

	f := newInvoiceFixture("1050", "1050")
	f.apps = []ledger.PaymentApplication{
		{PaymentID: paymentID, InvoiceID: f.invoice.ID, Amount: decimal.RequireFromString("435")},
	}
	// the same payment's credit also mentions the reference; it must not
	// count a second time
	f.entries = []ledger.LedgerEntry{
		{
			TransactionID: paymentID,
			AccountID:     f.recvID,
			Credit:        decimal.RequireFromString("435"),
			Description:   "Payment for invoice #INV-1001",
		},
	}
	f.expect(repo, true)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusOpen).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal, _ ledger.Status) error {
			assert.True(t, balance.Equal(decimal.RequireFromString("615")), "balance %s", balance)
			return nil
		})

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("615")))
}

func TestService_RecalculateInvoice_DepositDescriptionCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("1000", "1000")
	f.deposits = []*ledger.Transaction{
		{
			ID:          uuid.New(),
			Type:        ledger.TypeDeposit,
			Reference:   "DEP-4",
			Date:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("400"),
			Description: "Customer deposit - Applied $250 to invoice #INV-1001",
		},
	}
	f.expect(repo, true)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusOpen).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal, _ ledger.Status) error {
			assert.True(t, balance.Equal(decimal.RequireFromString("750")), "balance %s", balance)
			return nil
		})

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("750")))
}

func TestService_RecalculateInvoice_DepositClauseCappedByResidual(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("100", "100")
	f.deposits = []*ledger.Transaction{
		{
			ID:          uuid.New(),
			Type:        ledger.TypeDeposit,
			Reference:   "DEP-4",
			Amount:      decimal.RequireFromString("250"),
			Description: "Applied $250 to invoice #INV-1001",
		},
	}
	f.expect(repo, true)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusCompleted).
		Return(nil)

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, ledger.StatusCompleted, got.Status)
	// capped before it could exceed the amount, so no warning
	assert.Empty(t, sink.warnings)
}

func TestService_RecalculateInvoice_CountedDepositNotDoubleCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("1000", "1000")
	f.entries = []ledger.LedgerEntry{
		{
			TransactionID: uuid.New(),
			AccountID:     f.recvID,
			Debit:         decimal.RequireFromString("200"),
			Description:   "Applied credit from deposit #DEP-7 to invoice #INV-1001",
		},
	}
	// the same deposit also states the application in its description
	f.deposits = []*ledger.Transaction{
		{
			ID:          uuid.New(),
			Type:        ledger.TypeDeposit,
			Reference:   "DEP-7",
			Amount:      decimal.RequireFromString("200"),
			Description: "Customer deposit - Applied $200 to invoice #INV-1001",
		},
	}
	f.expect(repo, true)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusOpen).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal, _ ledger.Status) error {
			assert.True(t, balance.Equal(decimal.RequireFromString("800")), "balance %s", balance)
			return nil
		})

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("800")))
}

func TestService_RecalculateInvoice_LedgerOnlySkipsDepositScan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("1000", "1000")
	f.entries = []ledger.LedgerEntry{
		{
			TransactionID: uuid.New(),
			AccountID:     f.recvID,
			Credit:        decimal.RequireFromString("400"),
			Description:   "Payment for invoice #INV-1001",
		},
	}
	// no ListTransactionsByType expectation: LedgerOnly must not scan deposits
	f.expect(repo, false)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusOpen).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal, _ ledger.Status) error {
			assert.True(t, balance.Equal(decimal.RequireFromString("600")), "balance %s", balance)
			return nil
		})

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{LedgerOnly: true})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("600")))
}

func TestService_RecalculateInvoice_NoChangeSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("1050", "615")
	f.entries = []ledger.LedgerEntry{
		{
			TransactionID: uuid.New(),
			AccountID:     f.recvID,
			Credit:        decimal.RequireFromString("435"),
			Description:   "Payment for invoice #INV-1001",
		},
	}
	// result equals the stored balance and status: no UpdateTransactionBalance
	f.expect(repo, true)

	got, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("615")))
}

func TestService_RecalculateInvoice_ForceWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	f := newInvoiceFixture("1050", "615")
	f.entries = []ledger.LedgerEntry{
		{
			TransactionID: uuid.New(),
			AccountID:     f.recvID,
			Credit:        decimal.RequireFromString("435"),
			Description:   "Payment for invoice #INV-1001",
		},
	}
	f.expect(repo, true)

	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), f.invoice.ID, gomock.Any(), ledger.StatusOpen).
		Return(nil)

	_, err := svc.RecalculateInvoice(context.Background(), f.invoice.ID, reconcile.Options{Force: true})
	require.NoError(t, err)
}

func TestService_RecalculateInvoice_WrongType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	svc := reconcile.NewService(repo, &recordingSink{})

	id := uuid.New()
	repo.EXPECT().
		GetTransaction(gomock.Any(), id).
		Return(&ledger.Transaction{ID: id, Type: ledger.TypePayment}, nil)

	_, err := svc.RecalculateInvoice(context.Background(), id, reconcile.Options{})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_RecalculateBill_OverPaidClampKeepsPostedCredits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	sink := &recordingSink{}
	svc := reconcile.NewService(repo, sink)

	// posted credits exceed the header amount; the clamp caps payments at
	// the header but the outstanding balance stays relative to the credits
	bill := &ledger.Transaction{
		ID:        uuid.New(),
		Type:      ledger.TypeBill,
		Reference: "BILL-9",
		Amount:    decimal.RequireFromString("300"),
		Balance:   decimal.RequireFromString("300"),
		Status:    ledger.StatusOpen,
	}
	payableID := uuid.New()

	entries := []ledger.LedgerEntry{
		{
			TransactionID: bill.ID,
			AccountID:     payableID,
			Credit:        decimal.RequireFromString("400"),
			Description:   "Bill #BILL-9",
		},
		{
			TransactionID: uuid.New(),
			AccountID:     payableID,
			Debit:         decimal.RequireFromString("350"),
			Description:   "Payment for bill #BILL-9",
		},
	}

	repo.EXPECT().GetTransaction(gomock.Any(), bill.ID).Return(bill, nil)
	repo.EXPECT().
		FindAccountByType(gomock.Any(), ledger.AccountPayable).
		Return(&ledger.Account{ID: payableID, Type: ledger.AccountPayable}, nil)
	repo.EXPECT().ListEntriesForAccount(gomock.Any(), payableID).Return(entries, nil)
	repo.EXPECT().ListApplicationsForInvoice(gomock.Any(), bill.ID).Return(nil, nil)
	repo.EXPECT().
		UpdateTransactionBalance(gomock.Any(), bill.ID, gomock.Any(), ledger.StatusOpen).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal, _ ledger.Status) error {
			assert.True(t, balance.Equal(decimal.RequireFromString("100")), "balance %s", balance)
			return nil
		})

	got, err := svc.RecalculateBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, ledger.StatusOpen, got.Status)

	require.Len(t, sink.warnings, 1)
	assert.Equal(t, ledger.WarnOverApplied, sink.warnings[0].Kind)
	assert.True(t, sink.warnings[0].Observed.Equal(decimal.RequireFromString("350")))
	assert.True(t, sink.warnings[0].Cap.Equal(decimal.RequireFromString("300")))
}

func TestService_RecalculateBill(t *testing.T) {
	type testCase struct {
		name        string
		amount      string
		balance     string
		paidDebit   string
		wantBalance string
		wantStatus  ledger.Status
		wantWrite   bool
	}

	tests := []testCase{
		{
			name:        "FullyPaidCompletes",
			amount:      "300",
			balance:     "300",
			paidDebit:   "300",
			wantBalance: "0",
			wantStatus:  ledger.StatusCompleted,
			wantWrite:   true,
		},
		{
			name:        "PartiallyPaidStaysOpen",
			amount:      "300",
			balance:     "300",
			paidDebit:   "100",
			wantBalance: "200",
			wantStatus:  ledger.StatusOpen,
			wantWrite:   true,
		},
		{
			name:        "AlreadyCurrentSkipsWrite",
			amount:      "300",
			balance:     "200",
			paidDebit:   "100",
			wantBalance: "200",
			wantStatus:  ledger.StatusOpen,
			wantWrite:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := reconcile.NewMockRepository(ctrl)
			sink := &recordingSink{}
			svc := reconcile.NewService(repo, sink)

			bill := &ledger.Transaction{
				ID:        uuid.New(),
				Type:      ledger.TypeBill,
				Reference: "BILL-9",
				Amount:    decimal.RequireFromString(tt.amount),
				Balance:   decimal.RequireFromString(tt.balance),
				Status:    ledger.StatusOpen,
			}
			payableID := uuid.New()

			entries := []ledger.LedgerEntry{
				{
					TransactionID: bill.ID,
					AccountID:     payableID,
					Credit:        bill.Amount,
					Description:   "Bill #BILL-9",
				},
				{
					TransactionID: uuid.New(),
					AccountID:     payableID,
					Debit:         decimal.RequireFromString(tt.paidDebit),
					Description:   "Payment for bill #BILL-9",
				},
			}

			repo.EXPECT().GetTransaction(gomock.Any(), bill.ID).Return(bill, nil)
			repo.EXPECT().
				FindAccountByType(gomock.Any(), ledger.AccountPayable).
				Return(&ledger.Account{ID: payableID, Type: ledger.AccountPayable}, nil)
			repo.EXPECT().ListEntriesForAccount(gomock.Any(), payableID).Return(entries, nil)
			repo.EXPECT().ListApplicationsForInvoice(gomock.Any(), bill.ID).Return(nil, nil)

			if tt.wantWrite {
				repo.EXPECT().
					UpdateTransactionBalance(gomock.Any(), bill.ID, gomock.Any(), tt.wantStatus).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal, _ ledger.Status) error {
						assert.True(t, balance.Equal(decimal.RequireFromString(tt.wantBalance)), "balance %s", balance)
						return nil
					})
			}

			got, err := svc.RecalculateBill(context.Background(), bill.ID)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(decimal.RequireFromString(tt.wantBalance)))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Empty(t, sink.warnings)
		})
	}
}
