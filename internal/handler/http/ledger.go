package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/schoolops/payroll-ledger-go/internal/handler/http/response"
)

type LedgerHandler interface {
	GetDaySessions(w http.ResponseWriter, r *http.Request)
	GetDayTotal(w http.ResponseWriter, r *http.Request)
	ApproveDay(w http.ResponseWriter, r *http.Request)
	UnapproveDay(w http.ResponseWriter, r *http.Request)
	ApplyOverrides(w http.ResponseWriter, r *http.Request)
	CreateSession(w http.ResponseWriter, r *http.Request)
	UpdateSession(w http.ResponseWriter, r *http.Request)
	DeleteSession(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService session.LedgerService
}

func NewLedgerHandler(ledgerService session.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{ledgerService: ledgerService}
}

func staffIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "staffID"), 10, 64)
	return id, err == nil && id > 0
}

func sessionIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	return id, err == nil && id > 0
}

func (h *ledgerHandlerImpl) GetDaySessions(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	result, err := h.ledgerService.DaySessions(r.Context(), staffID, chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) GetDayTotal(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	result, err := h.ledgerService.TotalMinutes(r.Context(), staffID, chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type approvePayload struct {
	ApprovedBy *string `json:"approved_by,omitempty"`
}

func (h *ledgerHandlerImpl) ApproveDay(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	var req approvePayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.ledgerService.ApproveDay(r.Context(), staffID, chi.URLParam(r, "date"), req.ApprovedBy)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) UnapproveDay(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	result, err := h.ledgerService.UnapproveDay(r.Context(), staffID, chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) ApplyOverrides(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	var req session.ApplyOverridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.StaffID = staffID
	req.WorkDate = chi.URLParam(r, "date")

	result, err := h.ledgerService.ApplyOverrides(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) CreateSession(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}

	var req struct {
		WorkDate string `json:"work_date"`
		session.SessionPayload
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ledgerService.CreateSession(r.Context(), staffID, req.WorkDate, req.SessionPayload)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Session created", result)
}

func (h *ledgerHandlerImpl) UpdateSession(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}
	sessionID, ok := sessionIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid session id", nil)
		return
	}

	var req session.SessionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ledgerService.UpdateSession(r.Context(), staffID, sessionID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid staff id", nil)
		return
	}
	sessionID, ok := sessionIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid session id", nil)
		return
	}

	if err := h.ledgerService.DeleteSession(r.Context(), staffID, sessionID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, nil)
}
