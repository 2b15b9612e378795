package httpapi

import (
	"net/http"
	"strconv"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := h.Orders.CreateOrder(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var f repository.OrderFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.OrderStatus(s)
		if !status.Valid() {
			writeError(w, r, domain.Ef(domain.KindValidation, "invalid status %q", s))
			return
		}
		f.Status = &status
	}
	if t := r.URL.Query().Get("table"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			writeError(w, r, domain.E(domain.KindValidation, "invalid table number"))
			return
		}
		f.TableNumber = &n
	}
	orders, err := h.Orders.ListOrders(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.UpdateOrderStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := h.Orders.UpdateOrderStatus(r.Context(), actor(r), id, req.Status, req.PaymentAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Orders.DeleteOrder(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListOrderItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.Orders.ListOrderItems(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) UpdateOrderItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.UpdateItemStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	it, err := h.Orders.UpdateItemStatus(r.Context(), actor(r), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request) {
	var req domain.PrintReceiptRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	receipt, err := h.Orders.PrintReceipt(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
