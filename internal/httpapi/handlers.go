// Package httpapi exposes the POS core to front-end terminals over HTTP and
// a WebSocket event channel.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/notify"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/report"
	"restaurant-pos/internal/staff"
	"restaurant-pos/internal/syncer"
	"restaurant-pos/internal/table"
)

type Handler struct {
	Auth    *auth.Service
	JWT     *auth.JWTManager
	Orders  *order.Service
	Tables  *table.Service
	Catalog *catalog.Service
	Staff   *staff.Service
	Reports *report.Service
	Syncer  *syncer.Service
	Hub     *notify.Hub
}

// actor pulls the authenticated actor set by the auth middleware.
func actor(r *http.Request) domain.Actor {
	a, _ := auth.ActorFromContext(r.Context())
	return a
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, domain.Ef(domain.KindValidation, "invalid %s", name)
	}
	return id, nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
