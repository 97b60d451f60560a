package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"garment-tracker/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	logger *logrus.Logger
	now    func() time.Time
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, logger *logrus.Logger) http.Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &Handler{svc: svc, logger: logger, now: time.Now}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Records ───────────────────────────────────────────────────────────────
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.apiListProducts)
		r.Post("/", h.apiCreateProduct)
		r.Get("/{id}", h.apiGetProduct)
		r.Put("/{id}", h.apiReplaceProduct)
		r.Patch("/{id}", h.apiPatchProduct)
		r.Delete("/{id}", h.apiDeleteProduct)
	})
	r.Route("/api/seamstresses", func(r chi.Router) {
		r.Get("/", h.apiListSeamstresses)
		r.Post("/", h.apiCreateSeamstress)
		r.Get("/{id}", h.apiGetSeamstress)
		r.Put("/{id}", h.apiReplaceSeamstress)
		r.Patch("/{id}", h.apiPatchSeamstress)
		r.Delete("/{id}", h.apiDeleteSeamstress)
	})
	r.Route("/api/fabrics", func(r chi.Router) {
		r.Get("/", h.apiListFabrics)
		r.Post("/", h.apiCreateFabric)
		r.Get("/lookup", h.apiFindFabric)
		r.Get("/{id}", h.apiGetFabric)
		r.Put("/{id}", h.apiReplaceFabric)
		r.Patch("/{id}", h.apiPatchFabric)
		r.Delete("/{id}", h.apiDeleteFabric)
		r.Post("/{id}/stock", h.apiAddStock)
	})
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.apiListOrders)
		r.Post("/", h.apiCreateOrder)
		r.Get("/next-id", h.apiNextOrderID)
		r.Get("/{id}", h.apiGetOrder)
		r.Put("/{id}", h.apiReplaceOrder)
		r.Patch("/{id}", h.apiPatchOrder)
		r.Delete("/{id}", h.apiDeleteOrder)

		// ── Lifecycle ─────────────────────────────────────────────────────────
		r.Post("/{id}/cutting", h.apiStartCutting)
		r.Post("/{id}/cut", h.apiConfirmCut)
		r.Post("/{id}/distribute", h.apiDistribute)
		r.Post("/{id}/splits/{splitID}/finish", h.apiFinishSplit)
	})

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Get("/api/dashboard", h.apiDashboard)
	r.Get("/api/reports/pieces", h.apiPiecesReport)
	r.Get("/api/reports/periods", h.apiPeriodReport)
	r.Get("/api/reports/seamstresses", h.apiSeamstressStats)
	r.Get("/api/size-grids", h.apiSizeGrids)
	r.Get("/api/schema/{entity}", h.apiSchema)

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string    `json:"status"`
		Time   time.Time `json:"time"`
	}
	writeJSON(w, response{Status: "ok", Time: h.now().UTC()})
}

// idParam extracts the {id} URL parameter.
func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
