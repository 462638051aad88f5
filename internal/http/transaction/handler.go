package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/ledger"
	"github.com/tallybook/tallybook/internal/lifecycle"
	"github.com/tallybook/tallybook/internal/reconcile"
)

type Handler struct {
	svc        *lifecycle.Service
	reconciler *reconcile.Service
}

func NewHandler(svc *lifecycle.Service, reconciler *reconcile.Service) *Handler {
	return &Handler{svc: svc, reconciler: reconciler}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/reconcile", h.reconcile)
}

type entryRequest struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

type lineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   *uuid.UUID      `json:"account_id,omitempty"`
	TaxID       *uuid.UUID      `json:"tax_id,omitempty"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
}

type applicationRequest struct {
	PaymentID uuid.UUID       `json:"payment_id,omitempty"`
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type createTransactionRequest struct {
	Type         ledger.TransactionType `json:"type"`
	Reference    string                 `json:"reference"`
	Date         time.Time              `json:"date"`
	Description  string                 `json:"description"`
	Amount       decimal.Decimal        `json:"amount"`
	Balance      *decimal.Decimal       `json:"balance,omitempty"`
	Status       ledger.Status          `json:"status"`
	ContactID    *uuid.UUID             `json:"contact_id,omitempty"`
	ContactName  string                 `json:"contact_name,omitempty"`
	Currency     string                 `json:"currency,omitempty"`
	LineItems    []lineItemRequest      `json:"line_items,omitempty"`
	Entries      []entryRequest         `json:"ledger_entries"`
	Applications []applicationRequest   `json:"applications,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := lifecycle.CreateParams{
		Type:        req.Type,
		Reference:   req.Reference,
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Balance:     req.Balance,
		Status:      req.Status,
		ContactID:   req.ContactID,
		ContactName: req.ContactName,
		Currency:    req.Currency,
	}

	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, lifecycle.LineItemParams{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Amount:      li.Amount,
			AccountID:   li.AccountID,
			TaxID:       li.TaxID,
			ProductID:   li.ProductID,
		})
	}

	for _, e := range req.Entries {
		params.Entries = append(params.Entries, lifecycle.EntryParams{
			AccountID:   e.AccountID,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Date:        req.Date,
			Description: e.Description,
		})
	}

	for _, a := range req.Applications {
		params.Applications = append(params.Applications, lifecycle.ApplicationParams{
			PaymentID: a.PaymentID,
			InvoiceID: a.InvoiceID,
			Amount:    a.Amount,
		})
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, ledger.ErrUnbalancedEntries) || errors.Is(err, ledger.ErrNoLedgerEntries) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

type updateTransactionRequest struct {
	Reference   *string          `json:"reference,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Status      *ledger.Status   `json:"status,omitempty"`
	ContactName *string          `json:"contact_name,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Update(r.Context(), id, lifecycle.UpdateParams{
		Reference:   req.Reference,
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Balance:     req.Balance,
		Status:      req.Status,
		ContactName: req.ContactName,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ok, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !ok {
		// Not found, or a deposit still locked by active credit
		// applications.
		http.Error(w, "transaction cannot be deleted", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reconcileRequest struct {
	Kind       string `json:"kind"`
	Force      bool   `json:"force,omitempty"`
	LedgerOnly bool   `json:"ledger_only,omitempty"`
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var tx *ledger.Transaction

	switch req.Kind {
	case "bill":
		tx, err = h.reconciler.RecalculateBill(r.Context(), id)
	default:
		tx, err = h.reconciler.RecalculateInvoice(r.Context(), id, reconcile.Options{
			Force:      req.Force,
			LedgerOnly: req.LedgerOnly,
		})
	}

	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
