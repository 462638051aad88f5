package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tallybook/tallybook/internal/ledger"
	"github.com/tallybook/tallybook/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/matches", h.matches)
}

type suggestionResponse struct {
	TransactionID   uuid.UUID              `json:"transaction_id"`
	TransactionType ledger.TransactionType `json:"transaction_type"`
	Confidence      int                    `json:"confidence"`
	MatchType       string                 `json:"match_type"`
	Reason          string                 `json:"reason"`
}

func (h *Handler) matches(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	suggestions, err := h.svc.FindMatches(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "bank transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := make([]suggestionResponse, len(suggestions))
	for i, s := range suggestions {
		resp[i] = suggestionResponse{
			TransactionID:   s.TransactionID,
			TransactionType: s.TransactionType,
			Confidence:      s.Confidence,
			MatchType:       s.MatchType,
			Reason:          s.Reason,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
