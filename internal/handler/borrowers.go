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

type BorrowerHandler struct {
	service   *service.BorrowerService
	validator *validator.Validate
}

func NewBorrowerHandler(service *service.BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *BorrowerHandler) CreateBorrower(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.CreateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Borrower name is required", err)
		return
	}

	borrower, err := h.service.CreateBorrower(r.Context(), actor, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{"borrower": borrower})
}

func (h *BorrowerHandler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := borrowerID(r)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID", err)
		return
	}

	borrower, err := h.service.GetBorrower(r.Context(), actor, id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"borrower": borrower})
}

func (h *BorrowerHandler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	borrowers, err := h.service.ListBorrowers(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"borrowers": borrowers})
}

func (h *BorrowerHandler) UpdateBorrower(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := borrowerID(r)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID", err)
		return
	}

	var req domain.UpdateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	borrower, err := h.service.UpdateBorrower(r.Context(), actor, id, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"borrower": borrower})
}

func (h *BorrowerHandler) DeleteBorrower(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := borrowerID(r)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID", err)
		return
	}

	if err := h.service.DeleteBorrower(r.Context(), actor, id); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Borrower deleted successfully"})
}

func borrowerID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["borrowerId"])
}
