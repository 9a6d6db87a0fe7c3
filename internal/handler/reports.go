package handler

import (
	"net/http"

	"github.com/lookman/lending-engine/internal/service"
	"github.com/lookman/lending-engine/pkg/response"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) DailyCollections(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	report, err := h.reports.DailyCollections(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"report": report})
}

func (h *ReportHandler) OutstandingLoans(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	report, err := h.reports.OutstandingLoans(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"report": report})
}

func (h *ReportHandler) LoansSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.reports.Summary(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"summary": summary})
}

func (h *ReportHandler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.ProfitLoss(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"report": report})
}

func (h *ReportHandler) Performance(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	report, err := h.reports.Performance(r.Context(), actor, r.URL.Query().Get("period"))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"report": report})
}

func (h *ReportHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.MonthlySummary(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"report": report})
}
