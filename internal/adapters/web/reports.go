package web

import (
	"net/http"
	"strconv"
	"time"

	"garment-tracker/internal/app"
	"garment-tracker/internal/db/sqltime"
)

// ── Reports ──────────────────────────────────────────────────────────────────

func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), h.now())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, dash)
}

// apiPiecesReport sums finished pieces. Query: from, to (ISO-8601 or YYYY-MM-DD),
// fabric, seamstress.
func (h *Handler) apiPiecesReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.PiecesReportRequest{
		Fabric:       q.Get("fabric"),
		SeamstressID: q.Get("seamstress"),
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &req.From}, {"to", &req.To}} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		t, err := sqltime.ParseAny(s)
		if err != nil {
			writeErrorResponse(w, r, errorResponse{
				Error: err.Error(),
				Code:  "VALIDATION_ERROR",
				Field: p.name,
			}, http.StatusBadRequest)
			return
		}
		*p.dst = &t
	}
	report, err := h.svc.PiecesReport(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// apiPeriodReport returns finished pieces per bucket. Query: granularity (day, week, month),
// n (number of buckets), end (ISO-8601 or YYYY-MM-DD, default now).
func (h *Handler) apiPeriodReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.PeriodReportRequest{Granularity: q.Get("granularity"), End: h.now()}
	if s := q.Get("n"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeErrorResponse(w, r, errorResponse{Error: "n must be a whole number", Code: "VALIDATION_ERROR", Field: "n"}, http.StatusBadRequest)
			return
		}
		req.Periods = n
	}
	if s := q.Get("end"); s != "" {
		end, err := sqltime.ParseAny(s)
		if err != nil {
			writeErrorResponse(w, r, errorResponse{Error: err.Error(), Code: "VALIDATION_ERROR", Field: "end"}, http.StatusBadRequest)
			return
		}
		req.End = end
	}
	result, err := h.svc.ProductionByPeriod(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiSeamstressStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SeamstressStats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiSizeGrids(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.SizeGrids())
}
