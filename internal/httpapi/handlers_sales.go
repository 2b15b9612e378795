package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-pos/internal/domain"
)

func (h *Handler) DailySales(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.Daily(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) SalesRange(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "timeRange")
	rng, err := h.Reports.Range(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rng)
}

func (h *Handler) CashierDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Reports.CashierDashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var req domain.SyncRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Syncer.Sync(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
