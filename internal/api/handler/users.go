package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartaircity/smartaircity/internal/api/models"
	"github.com/smartaircity/smartaircity/internal/api/response"
	"github.com/smartaircity/smartaircity/internal/user"
)

// UserHandler handles dashboard account endpoints.
type UserHandler struct {
	users *user.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers handles GET /v1/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list users")
		return
	}

	list := models.UserList{Users: make([]models.UserResponse, 0, len(users))}
	for _, u := range users {
		list.Users = append(list.Users, models.UserFromDomain(u))
	}
	response.JSON(w, r, http.StatusOK, list)
}

// CreateUser handles POST /v1/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	u, err := h.users.Create(r.Context(), input.Username, input.Email, input.Role)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameRequired):
			response.BadRequest(w, r, "username is required", []models.FieldError{
				{Field: "username", Message: "required", Code: "REQUIRED"},
			})
		case errors.Is(err, user.ErrEmailRequired):
			response.BadRequest(w, r, "email is required", []models.FieldError{
				{Field: "email", Message: "required", Code: "REQUIRED"},
			})
		case errors.Is(err, user.ErrUserExists):
			response.Conflict(w, r, "user already exists")
		default:
			response.InternalError(w, r, "failed to create user")
		}
		return
	}

	location := fmt.Sprintf("/v1/users/%s", u.ID)
	response.Created(w, r, location, models.UserFromDomain(u))
}

// GetUser handles GET /v1/users/{userId}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		response.BadRequest(w, r, "userId is required", nil)
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to load user")
		return
	}

	response.JSON(w, r, http.StatusOK, models.UserFromDomain(u))
}

// UpdateUserActive handles PUT /v1/users/{userId}/active.
func (h *UserHandler) UpdateUserActive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		response.BadRequest(w, r, "userId is required", nil)
		return
	}

	var input models.UpdateUserActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	u, err := h.users.SetActive(r.Context(), userID, input.IsActive)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to update user")
		return
	}

	response.JSON(w, r, http.StatusOK, models.UserFromDomain(u))
}

// DeleteUser handles DELETE /v1/users/{userId}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		response.BadRequest(w, r, "userId is required", nil)
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to delete user")
		return
	}

	response.NoContent(w, r)
}
