package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/tallybook/tallybook/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	GetImportedTransaction(ctx context.Context, id uuid.UUID) (*ledger.ImportedTransaction, error)
	ListCandidates(ctx context.Context, types []ledger.TransactionType, statuses []ledger.Status, from, to time.Time) ([]*ledger.Transaction, error)
}

// Suggestion is a scored candidate correspondence between an imported bank row
// and an internal transaction. Never persisted.
type Suggestion struct {
	TransactionID   uuid.UUID
	TransactionType ledger.TransactionType
	Confidence      int
	MatchType       string
	Reason          string
}

// Match type classifications, strongest first.
const (
	MatchExact     = "exact"
	MatchTolerance = "tolerance"
	MatchFuzzy     = "fuzzy"
)

// minConfidence is the threshold below which candidates are not suggested.
const minConfidence = 50

// candidateWindow is how far either side of the bank date candidates may fall.
const candidateWindow = 30 * 24 * time.Hour

var fold = cases.Fold()

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// openStatuses are the document states still awaiting money movement.
var openStatuses = []ledger.Status{ledger.StatusOpen, ledger.StatusOverdue, ledger.StatusPartial}

// FindMatches scores existing transactions the imported bank row could
// correspond to. Money in searches invoices and manually recorded deposits;
// money out searches bills and manually recorded outgoings. Read-only and safe
// to call repeatedly.
func (s *Service) FindMatches(ctx context.Context, importedID uuid.UUID) ([]Suggestion, error) {
	row, err := s.repo.GetImportedTransaction(ctx, importedID)
	if err != nil {
		return nil, err
	}

	from := row.Date.Add(-candidateWindow)
	to := row.Date.Add(candidateWindow)

	var docTypes, manualTypes []ledger.TransactionType

	if row.Amount.IsNegative() {
		docTypes = []ledger.TransactionType{ledger.TypeBill}
		manualTypes = []ledger.TransactionType{ledger.TypeExpense, ledger.TypePayment, ledger.TypeCheque}
	} else {
		docTypes = []ledger.TransactionType{ledger.TypeInvoice}
		manualTypes = []ledger.TransactionType{ledger.TypeDeposit, ledger.TypePayment, ledger.TypeSalesReceipt}
	}

	docs, err := s.repo.ListCandidates(ctx, docTypes, openStatuses, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing document candidates: %w", err)
	}

	manual, err := s.repo.ListCandidates(ctx, manualTypes, nil, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing manual candidates: %w", err)
	}

	var suggestions []Suggestion

	for _, cand := range docs {
		if sg, ok := score(row, cand, false); ok {
			suggestions = append(suggestions, sg)
		}
	}

	seen := make(map[uuid.UUID]bool, len(docs))
	for _, d := range docs {
		seen[d.ID] = true
	}

	for _, cand := range manual {
		if seen[cand.ID] {
			continue
		}

		if sg, ok := score(row, cand, true); ok {
			suggestions = append(suggestions, sg)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	return suggestions, nil
}

// score builds the additive confidence for one candidate. Manual candidates
// (plain deposits, payments, receipts) get the tighter same-or-next-day date
// bonus because they are usually recorded on the day the money moved.
func score(row *ledger.ImportedTransaction, cand *ledger.Transaction, manual bool) (Suggestion, bool) {
	target := row.Amount.Abs()
	diff := target.Sub(cand.Amount.Abs()).Abs()

	confidence := 0
	matchType := ""

	var reasons []string

	switch {
	case diff.LessThanOrEqual(ledger.Epsilon):
		confidence += 50
		matchType = MatchExact

		reasons = append(reasons, "amount matches exactly")
	case !target.IsZero() && diff.LessThanOrEqual(target.Mul(decimal.NewFromFloat(0.02))):
		confidence += 40
		matchType = MatchTolerance

		reasons = append(reasons, "amount within 2% tolerance")
	case !target.IsZero() && diff.LessThanOrEqual(target.Mul(decimal.NewFromFloat(0.05))):
		confidence += 25

		reasons = append(reasons, "amount within 5%")
	}

	days := dayDelta(row.Date, cand.Date)

	switch {
	case manual && days <= 1:
		confidence += 25

		reasons = append(reasons, "same or next day")
	case days <= 3:
		confidence += 20

		reasons = append(reasons, "dated within 3 days")
	case days <= 7:
		confidence += 15

		reasons = append(reasons, "dated within 7 days")
	case days <= 14:
		confidence += 10

		reasons = append(reasons, "dated within 14 days")
	}

	if nameMatches(row.Payee, cand) {
		confidence += 15

		reasons = append(reasons, "counterparty name matches")
	}

	if cand.Reference != "" && strings.Contains(fold.String(row.Description), fold.String(cand.Reference)) {
		confidence += 15

		reasons = append(reasons, "reference found in bank description")
	}

	if confidence < minConfidence {
		return Suggestion{}, false
	}

	if matchType == "" {
		matchType = MatchFuzzy
	}

	return Suggestion{
		TransactionID:   cand.ID,
		TransactionType: cand.Type,
		Confidence:      confidence,
		MatchType:       matchType,
		Reason:          strings.Join(reasons, "; "),
	}, true
}

// nameMatches checks a substring match in either direction between the bank
// row's counterparty and the candidate's contact name or description.
func nameMatches(payee string, cand *ledger.Transaction) bool {
	p := fold.String(strings.TrimSpace(payee))
	if p == "" {
		return false
	}

	for _, against := range []string{cand.ContactName, cand.Description} {
		a := fold.String(strings.TrimSpace(against))
		if a == "" {
			continue
		}

		if strings.Contains(a, p) || strings.Contains(p, a) {
			return true
		}
	}

	return false
}

// dayDelta is the difference in calendar days, not elapsed 24-hour periods:
// timestamps a few hours apart across midnight are a day apart.
func dayDelta(a, b time.Time) int {
	d := a.Truncate(24 * time.Hour).Sub(b.Truncate(24 * time.Hour))
	if d < 0 {
		d = -d
	}

	return int(d / (24 * time.Hour))
}
