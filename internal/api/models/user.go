package models

import (
	"github.com/smartaircity/smartaircity/internal/user"
)

// UserResponse represents a dashboard account.
type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// UserFromDomain converts a domain user to its API shape.
func UserFromDomain(u *user.User) UserResponse {
	return UserResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: Timestamp(u.CreatedAt),
		UpdatedAt: Timestamp(u.UpdatedAt),
	}
}

// UserList is the response for the user listing endpoint.
type UserList struct {
	Users []UserResponse `json:"users"`
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserActiveRequest is the request body for toggling activation.
type UpdateUserActiveRequest struct {
	IsActive bool `json:"isActive"`
}
