package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/parishworks/chms-backend-go/internal/domain/audit"
	"github.com/parishworks/chms-backend-go/internal/domain/payroll"
	"github.com/parishworks/chms-backend-go/internal/handler/http/middleware"
	"github.com/parishworks/chms-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Batches
	CreateBatch(w http.ResponseWriter, r *http.Request)
	ListBatches(w http.ResponseWriter, r *http.Request)
	GetBatchStatus(w http.ResponseWriter, r *http.Request)
	GetBatchRecords(w http.ResponseWriter, r *http.Request)
	ApproveBatch(w http.ResponseWriter, r *http.Request)
	RejectBatch(w http.ResponseWriter, r *http.Request)

	// Records
	ApproveRecord(w http.ResponseWriter, r *http.Request)
	RejectRecord(w http.ResponseWriter, r *http.Request)
	MarkRecordPaid(w http.ResponseWriter, r *http.Request)

	// Rejections
	ListOpenRejections(w http.ResponseWriter, r *http.Request)
	MarkRejectionNotified(w http.ResponseWriter, r *http.Request)
	ResolveRejection(w http.ResponseWriter, r *http.Request)

	// Audit
	ListAuditEntries(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	approvalService payroll.ApprovalService
	auditService    audit.Service
}

func NewPayrollHandler(approvalService payroll.ApprovalService, auditService audit.Service) PayrollHandler {
	return &payrollHandlerImpl{
		approvalService: approvalService,
		auditService:    auditService,
	}
}

// ========== BATCHES ==========

func (h *payrollHandlerImpl) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	result, err := h.approvalService.CreateBatch(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll batch created", result)
}

func (h *payrollHandlerImpl) ListBatches(w http.ResponseWriter, r *http.Request) {
	filter := payroll.BatchFilter{
		Page:  1,
		Limit: 20,
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if periodStart := r.URL.Query().Get("period_start"); periodStart != "" {
		filter.PeriodStart = &periodStart
	}
	if periodEnd := r.URL.Query().Get("period_end"); periodEnd != "" {
		filter.PeriodEnd = &periodEnd
	}

	result, err := h.approvalService.ListBatches(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int(result.TotalCount) / filter.Limit
	if int(result.TotalCount)%filter.Limit > 0 {
		totalPages++
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *payrollHandlerImpl) GetBatchStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Batch ID is required", nil)
		return
	}

	result, err := h.approvalService.GetBatchStatus(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetBatchRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Batch ID is required", nil)
		return
	}

	result, err := h.approvalService.GetBatchRecords(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ApproveBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Batch ID is required", nil)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	result, err := h.approvalService.ApproveBatch(r.Context(), id, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Batch approved", result)
}

func (h *payrollHandlerImpl) RejectBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Batch ID is required", nil)
		return
	}

	var req payroll.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	result, err := h.approvalService.RejectBatch(r.Context(), id, actor, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Batch rejected", result)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) ApproveRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	result, err := h.approvalService.ApproveRecord(r.Context(), id, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record approved", result)
}

func (h *payrollHandlerImpl) RejectRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req payroll.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	result, err := h.approvalService.RejectRecord(r.Context(), id, actor, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record rejected", result)
}

func (h *payrollHandlerImpl) MarkRecordPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	result, err := h.approvalService.MarkRecordPaid(r.Context(), id, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record marked as paid", result)
}

// ========== REJECTIONS ==========

func (h *payrollHandlerImpl) ListOpenRejections(w http.ResponseWriter, r *http.Request) {
	result, err := h.approvalService.ListOpenRejections(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) MarkRejectionNotified(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rejection ID is required", nil)
		return
	}

	if err := h.approvalService.MarkRejectionNotified(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "HR notified", nil)
}

func (h *payrollHandlerImpl) ResolveRejection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rejection ID is required", nil)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	result, err := h.approvalService.ResolveRejection(r.Context(), id, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rejection resolved", result)
}

// ========== AUDIT ==========

func (h *payrollHandlerImpl) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	refType := audit.ReferenceType(r.URL.Query().Get("reference_type"))
	refID := r.URL.Query().Get("reference_id")
	if (refType != audit.ReferenceTypeBatch && refType != audit.ReferenceTypeRecord) || refID == "" {
		response.BadRequest(w, "reference_type (batch|record) and reference_id are required", nil)
		return
	}

	result, err := h.auditService.ListEntries(r.Context(), refType, refID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
