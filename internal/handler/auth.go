package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/service"
	"github.com/lookman/lending-engine/pkg/response"
)

type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Username and password are required", err)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		response.Unauthorized(w, "Invalid username or password")
		return
	}

	response.Success(w, result)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Invalid password payload", err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), actor, &req); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Password changed successfully"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetProfile(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, user)
}

func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Invalid user payload", err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"users": users})
}
