package sheetshandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laundry/internal/domain/audit"
	"laundry/internal/domain/billing"
	"laundry/internal/domain/pricing"
	"laundry/internal/domain/sends"
	"laundry/internal/domain/sheets"
	"laundry/internal/transport/http/api"
	"laundry/internal/transport/http/middleware"
	"laundry/internal/transport/http/shared"
)

type Handler struct {
	Sheets    *sheets.Store
	Sends     *sends.Service
	SendStore *sends.Store
	Pricing   pricing.Context
	Audit     *audit.Service
}

func NewHandler(sheetStore *sheets.Store, sendService *sends.Service, sendStore *sends.Store, pctx pricing.Context, auditService *audit.Service) *Handler {
	return &Handler{Sheets: sheetStore, Sends: sendService, SendStore: sendStore, Pricing: pctx, Audit: auditService}
}

type sheetPayload struct {
	CustomerName        string            `json:"customerName"`
	Date                string            `json:"date"`
	SheetType           string            `json:"sheetType"`
	PricePerKg          float64           `json:"pricePerKg"`
	TotalWeightOverride *float64          `json:"totalWeightOverride"`
	TotalPriceOverride  *float64          `json:"totalPriceOverride"`
	Items               []sheets.LineItem `json:"items"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sheets", func(r chi.Router) {
		r.Post("/", h.handleCreateSheet)
		r.Get("/", h.handleListSheets)
		r.Get("/{sheetID}", h.handleGetSheet)
		r.Delete("/{sheetID}", h.handleDeleteSheet)
		r.Post("/{sheetID}/send", h.handleRecordSend)
	})
	r.Get("/sends", h.handleListSends)
}

func (h *Handler) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload sheetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.CustomerName == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "customerName is required", reqID)
		return
	}
	if payload.SheetType != sheets.TypeIndividual && payload.SheetType != sheets.TypeStandard {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "sheetType must be INDIVIDUAL or STANDARD", reqID)
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "date must be a date", reqID)
		return
	}

	id, err := h.Sheets.CreateSheet(r.Context(), sheets.OperationalSheet{
		CustomerName:        payload.CustomerName,
		Date:                date,
		SheetType:           payload.SheetType,
		PricePerKg:          payload.PricePerKg,
		TotalWeightOverride: payload.TotalWeightOverride,
		TotalPriceOverride:  payload.TotalPriceOverride,
		Items:               payload.Items,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sheet_create_failed", "failed to create sheet", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleListSheets(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "from must be a date", reqID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "to must be a date", reqID)
		return
	}

	result, err := h.Sheets.ListSheets(r.Context(), r.URL.Query().Get("customer"), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sheets_failed", "failed to list sheets", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	sheet, err := h.Sheets.GetSheet(r.Context(), chi.URLParam(r, "sheetID"))
	if errors.Is(err, sheets.ErrSheetNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sheet_failed", "failed to load sheet", reqID)
		return
	}

	// The live preview uses the same calculation as the send snapshot.
	api.Success(w, map[string]any{
		"sheet":  sheet,
		"totals": pricing.Compute(sheet, h.Pricing),
	}, reqID)
}

func (h *Handler) handleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	sheetID := chi.URLParam(r, "sheetID")

	if err := h.Sheets.DeleteSheet(r.Context(), sheetID); err != nil {
		if errors.Is(err, sheets.ErrSheetNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "sheet_delete_failed", "failed to delete sheet", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), middleware.GetActor(r.Context()), audit.ActionDeleteSheet, "sheet", sheetID, reqID, nil); err != nil {
		log.Printf("audit %s failed: %v", audit.ActionDeleteSheet, err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleRecordSend(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	sheetID := chi.URLParam(r, "sheetID")

	record, err := h.Sends.RecordSend(r.Context(), sheetID)
	if errors.Is(err, sheets.ErrSheetNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "send_failed", "failed to record send", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), middleware.GetActor(r.Context()), audit.ActionRecordSend, "send_record", record.ID, reqID, record); err != nil {
		log.Printf("audit %s failed: %v", audit.ActionRecordSend, err)
	}
	api.Created(w, record, reqID)
}

func (h *Handler) handleListSends(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	customer := r.URL.Query().Get("customer")
	if customer == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "customer is required", reqID)
		return
	}
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil || from.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "from must be a date", reqID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil || to.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "to must be a date", reqID)
		return
	}

	records, err := h.SendStore.ListByCustomer(r.Context(), billing.NormalizeCustomer(customer), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sends_failed", "failed to list send records", reqID)
		return
	}
	api.Success(w, records, reqID)
}
