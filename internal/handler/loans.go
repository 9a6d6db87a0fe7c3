package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/service"
	"github.com/lookman/lending-engine/pkg/response"
)

type LoanHandler struct {
	loans     *service.LoanService
	payments  *service.PaymentService
	validator *validator.Validate
}

func NewLoanHandler(loans *service.LoanService, payments *service.PaymentService) *LoanHandler {
	return &LoanHandler{
		loans:     loans,
		payments:  payments,
		validator: validator.New(),
	}
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Invalid loan payload", err)
		return
	}

	loan, schedule, err := h.loans.CreateLoan(r.Context(), actor, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"loan":     loan,
		"schedule": schedule,
	})
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	loan, err := h.loans.GetLoan(r.Context(), actor, id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	loans, err := h.loans.ListLoans(r.Context(), actor,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("borrower_id"),
	)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"loans": loans})
}

func (h *LoanHandler) ReviseFinancials(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	var req domain.ReviseFinancialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	loan, err := h.loans.ReviseFinancials(r.Context(), actor, id, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"loan": loan})
}

func (h *LoanHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	var req domain.UpdateLoanStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Status is required", err)
		return
	}

	loan, err := h.loans.SetStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"loan": loan})
}

func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	schedule, err := h.loans.GetSchedule(r.Context(), actor, id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{
		LoanID:   id.String(),
		Schedule: schedule,
	})
}

func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	outstanding, err := h.payments.OutstandingBalance(r.Context(), actor, id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.OutstandingResponse{
		LoanID:      id,
		Outstanding: outstanding,
	})
}

func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := loanID(r)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	if err := h.loans.DeleteLoan(r.Context(), actor, id); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Loan deleted successfully"})
}

func loanID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["loanId"])
}
