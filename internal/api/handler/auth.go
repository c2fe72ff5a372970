package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartaircity/smartaircity/internal/api/models"
	"github.com/smartaircity/smartaircity/internal/api/response"
	"github.com/smartaircity/smartaircity/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /v1/auth/login - admin sign-in.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	var fieldErrors []models.FieldError
	if req.Username == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "username", Message: "required", Code: "REQUIRED"})
	}
	if req.Password == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "password", Message: "required", Code: "REQUIRED"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	pair, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid credentials")
			return
		}
		response.InternalError(w, r, "authentication failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   models.Timestamp(pair.ExpiresAt),
	})
}
