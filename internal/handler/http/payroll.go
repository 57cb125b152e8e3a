package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/planillapro/payroll-backend-go/internal/handler/http/response"
	"github.com/planillapro/payroll-backend-go/internal/pkg/validator"
)

type PayrollRunHandler interface {
	// Lifecycle
	CreateRun(w http.ResponseWriter, r *http.Request)
	ProcessRun(w http.ResponseWriter, r *http.Request)
	ApproveRun(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	// Queries
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)

	DeleteRun(w http.ResponseWriter, r *http.Request)
}

type payrollRunHandlerImpl struct {
	runService payroll.RunService
}

func NewPayrollRunHandler(runService payroll.RunService) PayrollRunHandler {
	return &payrollRunHandlerImpl{runService: runService}
}

// ========== LIFECYCLE ==========

func (h *payrollRunHandlerImpl) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.runService.CreateRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run created", result)
}

func (h *payrollRunHandlerImpl) ProcessRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.runService.ProcessRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if len(result.Failed) > 0 {
		response.SuccessWithMessage(w, "Payroll run processed with failures", result)
		return
	}
	response.SuccessWithMessage(w, "Payroll run processed", result)
}

func (h *payrollRunHandlerImpl) ApproveRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.runService.ApproveRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run approved", result)
}

func (h *payrollRunHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	var req payroll.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.runService.MarkPaid(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run marked as paid", result)
}

// ========== QUERIES ==========

func (h *payrollRunHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.runService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollRunHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	filter := payroll.RunFilter{
		Page:  1,
		Limit: 20,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if startStr := r.URL.Query().Get("period_start"); startStr != "" {
		start, ok := validator.IsValidDate(startStr)
		if !ok {
			response.BadRequest(w, "Invalid period_start", nil)
			return
		}
		filter.PeriodStart = &start
	}
	if endStr := r.URL.Query().Get("period_end"); endStr != "" {
		end, ok := validator.IsValidDate(endStr)
		if !ok {
			response.BadRequest(w, "Invalid period_end", nil)
			return
		}
		filter.PeriodEnd = &end
	}

	result, err := h.runService.ListRuns(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollRunHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	periodStart := r.URL.Query().Get("period_start")
	periodEnd := r.URL.Query().Get("period_end")

	if periodStart == "" || periodEnd == "" {
		response.BadRequest(w, "period_start and period_end are required", nil)
		return
	}

	result, err := h.runService.GetSummary(r.Context(), periodStart, periodEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== DELETE ==========

func (h *payrollRunHandlerImpl) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	if err := h.runService.DeleteRun(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run deleted successfully", nil)
}
