package httpapi

import (
	"net/http"

	"restaurant-pos/internal/domain"
)

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Catalog.Create(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.CreateItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Catalog.Update(r.Context(), actor(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.Delete(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Staff.List(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]domain.LoginUser, 0, len(users))
	for _, u := range users {
		out = append(out, domain.LoginUser{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Staff.Create(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.LoginUser{ID: u.ID, Username: u.Username, Role: u.Role})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Staff.Delete(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
