package revenuehandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laundry/internal/domain/billing"
	"laundry/internal/domain/revenue"
	"laundry/internal/transport/http/api"
	"laundry/internal/transport/http/middleware"
	"laundry/internal/transport/http/shared"
)

type Handler struct {
	Revenue *revenue.Store
}

func NewHandler(store *revenue.Store) *Handler {
	return &Handler{Revenue: store}
}

type entryPayload struct {
	Source      string  `json:"source"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/revenues", h.handleCreateEntry)
	r.Get("/revenues", h.handleListEntries)
	r.Get("/reports/revenue", h.handleMonthlyReport)
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Source == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "source is required", reqID)
		return
	}
	if payload.Amount < 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be non-negative", reqID)
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "date must be a date", reqID)
		return
	}

	id, err := h.Revenue.CreateEntry(r.Context(), revenue.Entry{
		Source:      payload.Source,
		Description: payload.Description,
		Amount:      payload.Amount,
		Date:        date,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "revenue_create_failed", "failed to create revenue entry", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	monthStart, monthEnd, err := billing.MonthRange(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be formatted as YYYY-MM", reqID)
		return
	}

	entries, err := h.Revenue.ListEntries(r.Context(), monthStart, monthEnd)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "revenues_failed", "failed to list revenue entries", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	month := r.URL.Query().Get("month")
	monthStart, monthEnd, err := billing.MonthRange(month)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be formatted as YYYY-MM", reqID)
		return
	}

	report, err := h.Revenue.MonthlyReport(r.Context(), monthStart, monthEnd)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build revenue report", reqID)
		return
	}
	report.Month = month
	api.Success(w, report, reqID)
}
