package dto

import (
	"time"

	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/service"
)

// CredentialsRequest registers a superadmin or a school admin.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"notblank,required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"notblank,required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	SchoolID *string     `json:"schoolId"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Role: u.Role, SchoolID: u.SchoolID}
}

func NewAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: NewUserResponse(res.User)}
}
