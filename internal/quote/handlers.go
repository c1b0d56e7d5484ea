package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-studio/internal/common"
)

// Handler exposes the quote HTTP endpoints.
type Handler struct {
	Svc *Service
}

// Create handles POST /api/v1/quotes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	result, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		common.RenderError(w, err, "failed to generate quote")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"quoteId":     result.QuoteID,
		"calculation": result.Calculation,
		"createdAt":   result.CreatedAt,
	})
}

// Get handles GET /api/v1/quotes/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote id", nil)
		return
	}
	stored, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quote not found", nil)
			return
		}
		common.RenderError(w, err, "failed to fetch quote")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"quoteId":     stored.ID,
		"status":      stored.Status,
		"calculation": stored.Calculation,
		"input":       stored.Input,
		"createdAt":   stored.CreatedAt,
	})
}
