package billinghandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"laundry/internal/domain/audit"
	"laundry/internal/domain/billing"
	"laundry/internal/transport/http/api"
	"laundry/internal/transport/http/middleware"
	"laundry/internal/transport/http/shared"
)

type Handler struct {
	Billing      *billing.Service
	Audit        *audit.Service
	StatementDir string
}

func NewHandler(service *billing.Service, auditService *audit.Service, statementDir string) *Handler {
	return &Handler{Billing: service, Audit: auditService, StatementDir: statementDir}
}

type invoicePayload struct {
	CustomerName string  `json:"customerName"`
	Amount       float64 `json:"amount"`
	DueDate      string  `json:"dueDate"`
}

type paymentPayload struct {
	PaidAmount float64 `json:"paidAmount"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/invoices", h.handleCreateInvoice)
	r.Get("/invoices/{invoiceID}", h.handleGetInvoice)
	r.Post("/invoices/{invoiceID}/confirm-paid", h.handleConfirmFullyPaid)
	r.Route("/billing/{customer}", func(r chi.Router) {
		r.Get("/statement", h.handleStatement)
		r.Get("/{month}", h.handleMonthlySummary)
		r.Post("/{month}/payment", h.handleApplyPayment)
		r.Post("/{month}/confirm", h.handleConfirmMonth)
	})
}

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload invoicePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.CustomerName == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "customerName is required", reqID)
		return
	}

	dueDate, err := shared.ParseDate(payload.DueDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "dueDate must be a date", reqID)
		return
	}
	invoice, err := h.Billing.CreateInvoice(r.Context(), payload.CustomerName, payload.Amount, nilIfZero(dueDate))
	if err != nil {
		h.fail(w, r, err, "invoice_create_failed", "failed to create invoice")
		return
	}

	if err := h.Audit.Record(r.Context(), middleware.GetActor(r.Context()), audit.ActionCreateInvoice, "invoice", invoice.ID, reqID, payload); err != nil {
		log.Printf("audit %s failed: %v", audit.ActionCreateInvoice, err)
	}
	api.Created(w, invoice, reqID)
}

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.Billing.GetInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.fail(w, r, err, "invoice_lookup_failed", "failed to load invoice")
		return
	}
	api.Success(w, invoice, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Billing.MonthlySummary(r.Context(), chi.URLParam(r, "customer"), chi.URLParam(r, "month"))
	if err != nil {
		h.fail(w, r, err, "summary_failed", "failed to build monthly summary")
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApplyPayment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	customer := chi.URLParam(r, "customer")
	month := chi.URLParam(r, "month")

	var payload paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Billing.ApplyPayment(r.Context(), customer, month, payload.PaidAmount); err != nil {
		h.fail(w, r, err, "payment_failed", "failed to apply payment")
		return
	}

	if err := h.Audit.Record(r.Context(), middleware.GetActor(r.Context()), audit.ActionApplyPayment, "billing_month", customer+"/"+month, reqID, payload); err != nil {
		log.Printf("audit %s failed: %v", audit.ActionApplyPayment, err)
	}
	api.Success(w, map[string]string{"status": "applied"}, reqID)
}

func (h *Handler) handleConfirmMonth(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	customer := chi.URLParam(r, "customer")
	month := chi.URLParam(r, "month")
	actor := middleware.GetActor(r.Context())

	result, err := h.Billing.ConfirmMonth(r.Context(), customer, month, actor)
	if err != nil {
		h.fail(w, r, err, "confirm_failed", "failed to confirm month")
		return
	}

	if err := h.Audit.Record(r.Context(), actor, audit.ActionConfirmMonth, "billing_month", customer+"/"+month, reqID, result); err != nil {
		log.Printf("audit %s failed: %v", audit.ActionConfirmMonth, err)
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleConfirmFullyPaid(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")

	if err := h.Billing.ConfirmFullyPaid(r.Context(), invoiceID); err != nil {
		h.fail(w, r, err, "confirm_paid_failed", "failed to confirm invoice as paid")
		return
	}

	if err := h.Audit.Record(r.Context(), middleware.GetActor(r.Context()), audit.ActionLockPaid, "invoice", invoiceID, reqID, nil); err != nil {
		log.Printf("audit %s failed: %v", audit.ActionLockPaid, err)
	}
	api.Success(w, map[string]string{"status": "paid"}, reqID)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

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

	filePath, err := h.Billing.GenerateStatementPDF(r.Context(), h.StatementDir, chi.URLParam(r, "customer"), from, to)
	if err != nil {
		h.fail(w, r, err, "statement_failed", "failed to generate statement")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filePath)
}

func nilIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// fail maps domain sentinel errors to envelope codes and HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, billing.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", err.Error(), reqID)
	case errors.Is(err, billing.ErrInvalidMonth):
		api.Fail(w, http.StatusBadRequest, "invalid_month", err.Error(), reqID)
	case errors.Is(err, billing.ErrInvoiceNotFound), errors.Is(err, billing.ErrNoInvoices):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, billing.ErrNothingToConfirm):
		api.Fail(w, http.StatusNotFound, "nothing_to_confirm", err.Error(), reqID)
	case errors.Is(err, billing.ErrAlreadyConfirmed):
		api.Fail(w, http.StatusConflict, "already_confirmed", err.Error(), reqID)
	case errors.Is(err, billing.ErrNotFullyPaid):
		api.Fail(w, http.StatusConflict, "not_fully_paid", err.Error(), reqID)
	case errors.Is(err, billing.ErrPaidLocked):
		api.Fail(w, http.StatusConflict, "paid_locked", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, reqID)
	}
}
