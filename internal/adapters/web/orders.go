package web

import (
	"net/http"

	"garment-tracker/internal/app"
	"garment-tracker/internal/core"

	"github.com/go-chi/chi/v5"
)

// ── Orders API ───────────────────────────────────────────────────────────────

func (h *Handler) apiListOrders(w http.ResponseWriter, r *http.Request) {
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}
	result, err := h.svc.ListOrders(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

func (h *Handler) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), idParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) apiNextOrderID(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.NextOrderID(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, order)
}

// apiReplaceOrder is the full replace of a PLANNED order.
func (h *Handler) apiReplaceOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.UpdateOrder(r.Context(), idParam(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) apiPatchOrder(w http.ResponseWriter, r *http.Request) {
	var patch core.OrderPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	order, err := h.svc.PatchOrder(r.Context(), idParam(r), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) apiDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOrder(r.Context(), idParam(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

func (h *Handler) apiStartCutting(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.StartCutting(r.Context(), idParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiConfirmCut(w http.ResponseWriter, r *http.Request) {
	var req app.ConfirmCutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.OrderID = idParam(r)
	order, err := h.svc.ConfirmCut(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) apiDistribute(w http.ResponseWriter, r *http.Request) {
	var req app.DistributeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.OrderID = idParam(r)
	result, err := h.svc.Distribute(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

func (h *Handler) apiFinishSplit(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.FinishSplit(r.Context(), idParam(r), chi.URLParam(r, "splitID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
