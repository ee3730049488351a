package handler

import "github.com/accesshub/accesshub-api/internal/core/domain"

type registerRequest struct {
	Name       string `json:"name" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type meResponse struct {
	User      *domain.User `json:"user"`
	TokenRole domain.Role  `json:"tokenRole"`
}
