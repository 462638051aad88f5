package account

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/ledger"
)

type Store interface {
	CreateAccount(ctx context.Context, acct *ledger.Account) error
	GetAccountByCode(ctx context.Context, code string) (*ledger.Account, error)
	ListEntriesInRange(ctx context.Context, from, to time.Time) ([]ledger.LedgerEntry, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{code}", h.getByCode)
}

// LedgerRoutes exposes the raw ledger entry report.
func (h *Handler) LedgerRoutes(r chi.Router) {
	r.Get("/", h.listEntries)
}

type createAccountRequest struct {
	Code    string             `json:"code"`
	Name    string             `json:"name"`
	Type    ledger.AccountType `json:"type"`
	Balance decimal.Decimal    `json:"balance"`
	Active  *bool              `json:"active,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Code == "" || req.Name == "" {
		http.Error(w, "code and name are required", http.StatusUnprocessableEntity)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	acct := &ledger.Account{
		Code:    req.Code,
		Name:    req.Name,
		Type:    req.Type,
		Balance: req.Balance,
		Active:  active,
	}

	if err := h.store.CreateAccount(r.Context(), acct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(acct))
}

func (h *Handler) getByCode(w http.ResponseWriter, r *http.Request) {
	acct, err := h.store.GetAccountByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(acct))
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}

	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	if to.IsZero() {
		to = time.Now()
	}

	entries, err := h.store.ListEntriesInRange(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, out)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse("2006-01-02", s)
}

type accountResponse struct {
	ID        uuid.UUID          `json:"id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Type      ledger.AccountType `json:"type"`
	Balance   decimal.Decimal    `json:"balance"`
	Active    bool               `json:"active"`
	CreatedAt time.Time          `json:"created_at"`
}

func toResponse(acct *ledger.Account) accountResponse {
	return accountResponse{
		ID:        acct.ID,
		Code:      acct.Code,
		Name:      acct.Name,
		Type:      acct.Type,
		Balance:   acct.Balance,
		Active:    acct.Active,
		CreatedAt: acct.CreatedAt,
	}
}

type entryResponse struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description,omitempty"`
}

func toEntryResponse(e ledger.LedgerEntry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		AccountID:     e.AccountID,
		Debit:         e.Debit,
		Credit:        e.Credit,
		Date:          e.Date,
		Description:   e.Description,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
