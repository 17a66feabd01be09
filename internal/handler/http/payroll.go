package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/schoolops/payroll-ledger-go/internal/domain/payroll"
	"github.com/schoolops/payroll-ledger-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GetMatrix(w http.ResponseWriter, r *http.Request)
	GetMonthSummary(w http.ResponseWriter, r *http.Request)
	SetMonthPaid(w http.ResponseWriter, r *http.Request)
	SetAmountOverride(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) GetMatrix(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		response.BadRequest(w, "Query parameters 'from' and 'to' are required", nil)
		return
	}

	result, err := h.payrollService.Matrix(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MonthSummary(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SetMonthPaid(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	var req payroll.SetMonthPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.StaffID = staffID
	req.Month = chi.URLParam(r, "month")

	result, err := h.payrollService.SetMonthPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SetAmountOverride(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	var req payroll.SetAmountOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.StaffID = staffID
	req.Month = chi.URLParam(r, "month")

	result, err := h.payrollService.SetAmountOverride(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
