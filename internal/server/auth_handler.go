package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/mock-interview/internal/server/middleware"
	"github.com/jonathan/mock-interview/internal/store"
	"github.com/jonathan/mock-interview/internal/types"
)

// AuthHandler handles registration, login and current-user requests.
type AuthHandler struct {
	store      store.Store
	jwtService *JWTService
	validator  *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(st store.Store, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		store:      st,
		jwtService: jwtService,
		validator:  validator.New(),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationError(err))
		return
	}

	existing, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed.")
		return
	}
	if existing != nil {
		dup := &ErrEmailAlreadyExists{}
		writeError(w, HTTPStatus(dup), dup.Error())
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, HTTPStatus(err), "Registration failed.")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, types.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationError(err))
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed.")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "No account found with this email. Please sign up first.")
		return
	}

	ok, err := h.store.VerifyCredential(r.Context(), user.ID, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed.")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "Incorrect password. Please try again.")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, types.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user.")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "User not found. Please sign in again.")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// extractValidationError extracts the first validation error message.
func extractValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
