package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=8"`
	FullName     string     `json:"full_name" validate:"required"`
	BadgeNumber  string     `json:"badge_number,omitempty"`
	Role         string     `json:"role,omitempty"`
	DepartmentId *uuid.UUID `json:"department_id,omitempty"`
}

type RegisterResponse struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		Id       uuid.UUID `json:"id"`
		Email    string    `json:"email"`
		FullName string    `json:"full_name"`
		Role     string    `json:"role"`
	} `json:"user"`
}
