package payrollhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"laundry/internal/domain/audit"
	"laundry/internal/domain/payroll"
	"laundry/internal/transport/http/api"
	"laundry/internal/transport/http/middleware"
	"laundry/internal/transport/http/shared"
)

type Handler struct {
	Payroll *payroll.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, auditService *audit.Service) *Handler {
	return &Handler{Payroll: service, Audit: auditService}
}

type employeePayload struct {
	Name       string `json:"name"`
	PersonalID string `json:"personalId"`
}

type timeEntryPayload struct {
	EmployeeID  string  `json:"employeeId"`
	Date        string  `json:"date"`
	DailySalary float64 `json:"dailySalary"`
	Arrival     string  `json:"arrival"`
	Departure   string  `json:"departure"`
}

type issuePayload struct {
	IssuedAmount float64 `json:"issuedAmount"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/employees", h.handleCreateEmployee)
	r.Get("/employees", h.handleListEmployees)
	r.Post("/time-entries", h.handleRecordTimeEntry)
	r.Get("/payroll/{employeeID}/{year}/{month}", h.handleSummary)
	r.Get("/salaries", h.handleListSalaries)
	r.Post("/salaries/{salaryID}/issue", h.handleIssueSalary)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "name is required", reqID)
		return
	}

	id, err := h.Payroll.CreateEmployee(r.Context(), payroll.Employee{Name: payload.Name, PersonalID: payload.PersonalID})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Payroll.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordTimeEntry(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload timeEntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "date must be a date", reqID)
		return
	}

	id, err := h.Payroll.RecordTimeEntry(r.Context(), payroll.TimeEntry{
		EmployeeID:  payload.EmployeeID,
		Date:        date,
		DailySalary: payload.DailySalary,
		Arrival:     payload.Arrival,
		Departure:   payload.Departure,
	})
	if err != nil {
		h.fail(w, r, err, "time_entry_failed", "failed to record time entry")
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "year must be a number", reqID)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be a number", reqID)
		return
	}

	summary, err := h.Payroll.Summary(r.Context(), chi.URLParam(r, "employeeID"), month, year)
	if err != nil {
		h.fail(w, r, err, "payroll_summary_failed", "failed to build payroll summary")
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be a number", reqID)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "year must be a number", reqID)
		return
	}

	salaries, err := h.Payroll.ListSalaries(r.Context(), month, year)
	if err != nil {
		h.fail(w, r, err, "salaries_failed", "failed to list salaries")
		return
	}
	api.Success(w, salaries, reqID)
}

func (h *Handler) handleIssueSalary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	salaryID := chi.URLParam(r, "salaryID")

	var payload issuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Payroll.SetIssued(r.Context(), salaryID, payload.IssuedAmount); err != nil {
		h.fail(w, r, err, "salary_issue_failed", "failed to set issued amount")
		return
	}

	if err := h.Audit.Record(r.Context(), middleware.GetActor(r.Context()), audit.ActionIssueSalary, "salary", salaryID, reqID, payload); err != nil {
		log.Printf("audit %s failed: %v", audit.ActionIssueSalary, err)
	}
	api.Success(w, map[string]string{"status": "issued"}, reqID)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", err.Error(), reqID)
	case errors.Is(err, payroll.ErrInvalidMonth):
		api.Fail(w, http.StatusBadRequest, "invalid_month", err.Error(), reqID)
	case errors.Is(err, payroll.ErrEmployeeNotFound), errors.Is(err, payroll.ErrSalaryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, reqID)
	}
}
