package httpapi

import (
	"net/http"

	"restaurant-pos/internal/domain"
)

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) UpdateTableStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.UpdateTableStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.Tables.UpdateStatus(r.Context(), actor(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) AddReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.ReservationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.Tables.AddReservation(r.Context(), actor(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) BillRequests(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.BillRequests(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}
