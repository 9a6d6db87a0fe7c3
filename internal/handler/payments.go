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

type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Invalid payment payload", err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), actor, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{"payment": payment})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := paymentID(r)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID", err)
		return
	}

	payment, err := h.service.GetPayment(r.Context(), actor, id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"payment": payment})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	payments, err := h.service.ListPayments(r.Context(), actor,
		r.URL.Query().Get("loan_id"),
		r.URL.Query().Get("payment_date"),
	)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"payments": payments})
}

func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := paymentID(r)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID", err)
		return
	}

	var req domain.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	payment, err := h.service.UpdatePayment(r.Context(), actor, id, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"payment": payment})
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := paymentID(r)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID", err)
		return
	}

	if err := h.service.DeletePayment(r.Context(), actor, id); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Payment deleted successfully"})
}

func (h *PaymentHandler) TodayPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	payments, summary, err := h.service.TodayPayments(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"date":     summary.Date,
		"payments": payments,
		"summary":  summary,
	})
}

func paymentID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["paymentId"])
}
