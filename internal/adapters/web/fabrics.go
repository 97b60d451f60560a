package web

import (
	"net/http"

	"garment-tracker/internal/app"
	"garment-tracker/internal/core"

	"github.com/shopspring/decimal"
)

// ── Fabrics API ──────────────────────────────────────────────────────────────

// apiListFabrics accepts optional name, color and minStock query filters.
func (h *Handler) apiListFabrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.FabricListRequest{Name: q.Get("name"), Color: q.Get("color")}
	if s := q.Get("minStock"); s != "" {
		minStock, err := decimal.NewFromString(s)
		if err != nil {
			writeError(w, r, "minStock must be a number", "VALIDATION_ERROR", http.StatusBadRequest)
			return
		}
		req.MinStock = &minStock
	}
	result, err := h.svc.ListFabrics(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Fabrics)
}

func (h *Handler) apiGetFabric(w http.ResponseWriter, r *http.Request) {
	fabric, err := h.svc.GetFabric(r.Context(), idParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, fabric)
}

// apiFindFabric resolves a fabric by exact name and color: /api/fabrics/lookup?name=&color=.
func (h *Handler) apiFindFabric(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fabric, err := h.svc.FindFabric(r.Context(), q.Get("name"), q.Get("color"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, fabric)
}

func (h *Handler) apiCreateFabric(w http.ResponseWriter, r *http.Request) {
	var req app.FabricRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fabric, err := h.svc.CreateFabric(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, fabric)
}

func (h *Handler) apiReplaceFabric(w http.ResponseWriter, r *http.Request) {
	var req app.FabricRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fabric, err := h.svc.ReplaceFabric(r.Context(), idParam(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, fabric)
}

func (h *Handler) apiPatchFabric(w http.ResponseWriter, r *http.Request) {
	var patch core.FabricPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	fabric, err := h.svc.PatchFabric(r.Context(), idParam(r), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, fabric)
}

func (h *Handler) apiDeleteFabric(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFabric(r.Context(), idParam(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiAddStock records a manual stock entry: {"rolls": "3.2"}.
func (h *Handler) apiAddStock(w http.ResponseWriter, r *http.Request) {
	var req app.AddStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.FabricID = idParam(r)
	fabric, err := h.svc.AddStock(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, fabric)
}
