package matching_test

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
	"github.com/tallybook/tallybook/internal/matching"
)

var bankDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func expectRow(repo *matching.MockRepository, row *ledger.ImportedTransaction) {
	repo.EXPECT().GetImportedTransaction(gomock.Any(), row.ID).Return(row, nil)
}

func TestService_FindMatches_MoneyInSearchesInvoices(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	row := &ledger.ImportedTransaction{
		ID:          uuid.New(),
		Date:        bankDate,
		Amount:      decimal.NewFromInt(250),
		Payee:       "Acme Corp",
		Description: "ACME CORP PAYMENT INV-9",
	}
	invoice := &ledger.Transaction{
		ID:          uuid.New(),
		Type:        ledger.TypeInvoice,
		Reference:   "INV-9",
		Date:        bankDate,
		Amount:      decimal.NewFromInt(250),
		ContactName: "Acme Corp",
		Status:      ledger.StatusOpen,
	}

	expectRow(repo, row)
	repo.EXPECT().
		ListCandidates(gomock.Any(),
			[]ledger.TransactionType{ledger.TypeInvoice},
			[]ledger.Status{ledger.StatusOpen, ledger.StatusOverdue, ledger.StatusPartial},
			bankDate.Add(-30*24*time.Hour), bankDate.Add(30*24*time.Hour)).
		Return([]*ledger.Transaction{invoice}, nil)
	repo.EXPECT().
		ListCandidates(gomock.Any(),
			[]ledger.TransactionType{ledger.TypeDeposit, ledger.TypePayment, ledger.TypeSalesReceipt},
			gomock.Nil(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	got, err := svc.FindMatches(context.Background(), row.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// exact amount (+50), within 3 days (+20), name (+15), reference (+15)
	assert.Equal(t, invoice.ID, got[0].TransactionID)
	assert.Equal(t, 100, got[0].Confidence)
	assert.Equal(t, matching.MatchExact, got[0].MatchType)
}

func TestService_FindMatches_MoneyOutSearchesBills(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	row := &ledger.ImportedTransaction{
		ID:     uuid.New(),
		Date:   bankDate,
		Amount: decimal.NewFromInt(-300),
		Payee:  "Supplies Inc",
	}
	bill := &ledger.Transaction{
		ID:          uuid.New(),
		Type:        ledger.TypeBill,
		Reference:   "BILL-4",
		Date:        bankDate.AddDate(0, 0, -2),
		Amount:      decimal.NewFromInt(300),
		ContactName: "Supplies Inc",
		Status:      ledger.StatusOpen,
	}

	expectRow(repo, row)
	repo.EXPECT().
		ListCandidates(gomock.Any(),
			[]ledger.TransactionType{ledger.TypeBill},
			[]ledger.Status{ledger.StatusOpen, ledger.StatusOverdue, ledger.StatusPartial},
			gomock.Any(), gomock.Any()).
		Return([]*ledger.Transaction{bill}, nil)
	repo.EXPECT().
		ListCandidates(gomock.Any(),
			[]ledger.TransactionType{ledger.TypeExpense, ledger.TypePayment, ledger.TypeCheque},
			gomock.Nil(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	got, err := svc.FindMatches(context.Background(), row.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// exact (+50), within 3 days (+20), name (+15); no reference in empty description
	assert.Equal(t, bill.ID, got[0].TransactionID)
	assert.Equal(t, 85, got[0].Confidence)
	assert.Equal(t, matching.MatchExact, got[0].MatchType)
}

func TestService_FindMatches_ScoringTiers(t *testing.T) {
	type testCase struct {
		name           string
		amount         string
		daysAway       int
		contactName    string
		wantConfidence int
		wantMatchType  string
		wantSuggested  bool
	}

	// bank row: +1000 on bankDate, payee "Acme"
	tests := []testCase{
		{
			name:           "ToleranceAmountCloseDate",
			amount:         "1015", // 1.5% off
			daysAway:       2,
			contactName:    "Acme",
			wantConfidence: 75, // 40 + 20 + 15
			wantMatchType:  matching.MatchTolerance,
			wantSuggested:  true,
		},
		{
			name:           "FivePercentBandIsFuzzy",
			amount:         "1040", // 4% off
			daysAway:       2,
			contactName:    "Acme",
			wantConfidence: 60, // 25 + 20 + 15
			wantMatchType:  matching.MatchFuzzy,
			wantSuggested:  true,
		},
		{
			name:          "BelowThresholdDropped",
			amount:        "1040", // 4% off
			daysAway:      12,     // +10
			contactName:   "Unrelated Vendor",
			wantSuggested: false, // 25 + 10 = 35
		},
		{
			name:           "DistantDateExactAmountStillSuggested",
			amount:         "1000",
			daysAway:       25,
			contactName:    "Unrelated Vendor",
			wantConfidence: 50,
			wantMatchType:  matching.MatchExact,
			wantSuggested:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			svc := matching.NewService(repo)

			row := &ledger.ImportedTransaction{
				ID:     uuid.New(),
				Date:   bankDate,
				Amount: decimal.NewFromInt(1000),
				Payee:  "Acme",
			}
			cand := &ledger.Transaction{
				ID:          uuid.New(),
				Type:        ledger.TypeInvoice,
				Date:        bankDate.AddDate(0, 0, -tt.daysAway),
				Amount:      decimal.RequireFromString(tt.amount),
				ContactName: tt.contactName,
				Status:      ledger.StatusOpen,
			}

			expectRow(repo, row)
			repo.EXPECT().
				ListCandidates(gomock.Any(), []ledger.TransactionType{ledger.TypeInvoice}, gomock.Any(), gomock.Any(), gomock.Any()).
				Return([]*ledger.Transaction{cand}, nil)
			repo.EXPECT().
				ListCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
				Return(nil, nil)

			got, err := svc.FindMatches(context.Background(), row.ID)
			require.NoError(t, err)

			if !tt.wantSuggested {
				assert.Empty(t, got)
				return
			}

			require.Len(t, got, 1)
			assert.Equal(t, tt.wantConfidence, got[0].Confidence)
			assert.Equal(t, tt.wantMatchType, got[0].MatchType)
		})
	}
}

func TestService_FindMatches_DateBonusUsesCalendarDays(t *testing.T) {
	type testCase struct {
		name           string
		candDate       time.Time
		docPool        bool
		wantConfidence int
	}

	tests := []testCase{
		{
			// 25 hours before the bank date is two calendar days back,
			// not the manual same-or-next-day band
			name:           "ManualTwoCalendarDaysBack",
			candDate:       bankDate.Add(-25 * time.Hour),
			wantConfidence: 70, // exact (+50) + within 3 days (+20)
		},
		{
			// 3 days 23 hours is four calendar days, outside the 3-day band
			name:           "DocFourCalendarDaysBack",
			candDate:       bankDate.Add(-95 * time.Hour),
			docPool:        true,
			wantConfidence: 65, // exact (+50) + within 7 days (+15)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			svc := matching.NewService(repo)

			row := &ledger.ImportedTransaction{
				ID:     uuid.New(),
				Date:   bankDate,
				Amount: decimal.NewFromInt(120),
			}

			var docs, manual []*ledger.Transaction

			if tt.docPool {
				docs = []*ledger.Transaction{{
					ID:     uuid.New(),
					Type:   ledger.TypeInvoice,
					Date:   tt.candDate,
					Amount: decimal.NewFromInt(120),
					Status: ledger.StatusOpen,
				}}
			} else {
				manual = []*ledger.Transaction{{
					ID:     uuid.New(),
					Type:   ledger.TypeDeposit,
					Date:   tt.candDate,
					Amount: decimal.NewFromInt(120),
				}}
			}

			expectRow(repo, row)
			repo.EXPECT().
				ListCandidates(gomock.Any(), []ledger.TransactionType{ledger.TypeInvoice}, gomock.Any(), gomock.Any(), gomock.Any()).
				Return(docs, nil)
			repo.EXPECT().
				ListCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
				Return(manual, nil)

			got, err := svc.FindMatches(context.Background(), row.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantConfidence, got[0].Confidence)
		})
	}
}

func TestService_FindMatches_ManualSameDayBonus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	row := &ledger.ImportedTransaction{
		ID:     uuid.New(),
		Date:   bankDate,
		Amount: decimal.NewFromInt(120),
	}
	deposit := &ledger.Transaction{
		ID:     uuid.New(),
		Type:   ledger.TypeDeposit,
		Date:   bankDate,
		Amount: decimal.NewFromInt(120),
	}

	expectRow(repo, row)
	repo.EXPECT().
		ListCandidates(gomock.Any(), []ledger.TransactionType{ledger.TypeInvoice}, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)
	repo.EXPECT().
		ListCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
		Return([]*ledger.Transaction{deposit}, nil)

	got, err := svc.FindMatches(context.Background(), row.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// exact (+50) plus the manual same-day bonus (+25)
	assert.Equal(t, 75, got[0].Confidence)
	assert.Equal(t, ledger.TypeDeposit, got[0].TransactionType)
}

func TestService_FindMatches_SortedByConfidence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	row := &ledger.ImportedTransaction{
		ID:     uuid.New(),
		Date:   bankDate,
		Amount: decimal.NewFromInt(1000),
		Payee:  "Acme",
	}

	weak := &ledger.Transaction{
		ID:     uuid.New(),
		Type:   ledger.TypeInvoice,
		Date:   bankDate.AddDate(0, 0, -6),
		Amount: decimal.NewFromInt(1015),
		Status: ledger.StatusOpen,
	}
	strong := &ledger.Transaction{
		ID:          uuid.New(),
		Type:        ledger.TypeInvoice,
		Date:        bankDate,
		Amount:      decimal.NewFromInt(1000),
		ContactName: "Acme",
		Status:      ledger.StatusOpen,
	}

	expectRow(repo, row)
	repo.EXPECT().
		ListCandidates(gomock.Any(), []ledger.TransactionType{ledger.TypeInvoice}, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*ledger.Transaction{weak, strong}, nil)
	repo.EXPECT().
		ListCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	got, err := svc.FindMatches(context.Background(), row.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, strong.ID, got[0].TransactionID)
	assert.Equal(t, weak.ID, got[1].TransactionID)
	assert.Greater(t, got[0].Confidence, got[1].Confidence)
}

func TestService_FindMatches_DeduplicatesDocAndManualPools(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	row := &ledger.ImportedTransaction{
		ID:     uuid.New(),
		Date:   bankDate,
		Amount: decimal.NewFromInt(500),
	}
	cand := &ledger.Transaction{
		ID:     uuid.New(),
		Type:   ledger.TypeInvoice,
		Date:   bankDate,
		Amount: decimal.NewFromInt(500),
		Status: ledger.StatusOpen,
	}

	expectRow(repo, row)
	repo.EXPECT().
		ListCandidates(gomock.Any(), []ledger.TransactionType{ledger.TypeInvoice}, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*ledger.Transaction{cand}, nil)
	repo.EXPECT().
		ListCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
		Return([]*ledger.Transaction{cand}, nil)

	got, err := svc.FindMatches(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_FindMatches_RowNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetImportedTransaction(gomock.Any(), id).Return(nil, ledger.ErrNotFound)

	_, err := svc.FindMatches(context.Background(), id)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
