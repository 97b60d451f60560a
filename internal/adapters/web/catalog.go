package web

import (
	"net/http"

	"garment-tracker/internal/app"
	"garment-tracker/internal/core"
)

// ── Products API ─────────────────────────────────────────────────────────────

func (h *Handler) apiListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

func (h *Handler) apiGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), idParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, product)
}

func (h *Handler) apiReplaceProduct(w http.ResponseWriter, r *http.Request) {
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := h.svc.ReplaceProduct(r.Context(), idParam(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) apiPatchProduct(w http.ResponseWriter, r *http.Request) {
	var patch core.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	product, err := h.svc.PatchProduct(r.Context(), idParam(r), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) apiDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), idParam(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Seamstresses API ─────────────────────────────────────────────────────────

func (h *Handler) apiListSeamstresses(w http.ResponseWriter, r *http.Request) {
	seamstresses, err := h.svc.ListSeamstresses(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, seamstresses)
}

func (h *Handler) apiGetSeamstress(w http.ResponseWriter, r *http.Request) {
	seamstress, err := h.svc.GetSeamstress(r.Context(), idParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, seamstress)
}

func (h *Handler) apiCreateSeamstress(w http.ResponseWriter, r *http.Request) {
	var req app.SeamstressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	seamstress, err := h.svc.CreateSeamstress(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, seamstress)
}

func (h *Handler) apiReplaceSeamstress(w http.ResponseWriter, r *http.Request) {
	var req app.SeamstressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	seamstress, err := h.svc.ReplaceSeamstress(r.Context(), idParam(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, seamstress)
}

func (h *Handler) apiPatchSeamstress(w http.ResponseWriter, r *http.Request) {
	var patch core.SeamstressPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	seamstress, err := h.svc.PatchSeamstress(r.Context(), idParam(r), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, seamstress)
}

func (h *Handler) apiDeleteSeamstress(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSeamstress(r.Context(), idParam(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
