package handlers

import (
	"context"

	"github.com/spec-kit/school-service/internal/api/dto"
	"github.com/spec-kit/school-service/internal/pipeline"
	"github.com/spec-kit/school-service/internal/service"
)

// AuthHandler exposes registration, login and admin provisioning.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterSuperadmin handles POST /v1/auth/register-superadmin.
func (h *AuthHandler) RegisterSuperadmin(ctx context.Context, req pipeline.Request[dto.CredentialsRequest]) (any, error) {
	res, err := h.auth.RegisterSuperadmin(ctx, req.Input.Email, req.Input.Password)
	if err != nil {
		return nil, err
	}
	return dto.NewAuthResponse(res), nil
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(ctx context.Context, req pipeline.Request[dto.LoginRequest]) (any, error) {
	res, err := h.auth.Login(ctx, req.Input.Email, req.Input.Password)
	if err != nil {
		return nil, err
	}
	return dto.NewAuthResponse(res), nil
}

// CreateSchoolAdmin handles POST /v1/schools/:schoolId/admins.
func (h *AuthHandler) CreateSchoolAdmin(ctx context.Context, req pipeline.Request[dto.CredentialsRequest]) (any, error) {
	user, err := h.auth.CreateSchoolAdmin(ctx, *req.Principal, req.Param("schoolId"), req.Input.Email, req.Input.Password)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}
