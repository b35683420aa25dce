package audithandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"laundry/internal/domain/audit"
	"laundry/internal/transport/http/api"
	"laundry/internal/transport/http/middleware"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditService *audit.Service) *Handler {
	return &Handler{Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit", h.handleListEvents)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}
	offset := queryInt(r, "offset", 0)

	events, err := h.Audit.List(r.Context(), r.URL.Query().Get("action"), limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
