package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/salesdash-be/internal/api/httpx"
	"github.com/isdelr/salesdash-be/internal/apperr"
	"github.com/isdelr/salesdash-be/internal/auth"
	"github.com/isdelr/salesdash-be/internal/models"
	"github.com/isdelr/salesdash-be/internal/services"
	"github.com/isdelr/salesdash-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	CompanyName string `json:"companyName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	user, err := h.service.Signup(r.Context(), services.SignupInput{
		CompanyName: payload.CompanyName,
		Username:    payload.Username,
		Email:       payload.Email,
		Password:    payload.Password,
	})
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Signup completed successfully.",
		"user":    user,
	})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed authentication attempt")
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Login successful.",
		"user":      res.User,
		"token":     res.Token,
		"expiresIn": int64(res.ExpiresIn.Seconds()),
	})
}

// Me returns the currently authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, apperr.Auth("authentication required"))
		return
	}

	user, err := h.service.GetUserByID(r.Context(), p.UserID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// List returns every active user.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListActiveUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.User{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   list,
		"count":   len(list),
	})
}

// ChangePassword handles changing the caller's own password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := ownerID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var payload struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), id, payload.OldPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to change password")
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated successfully.",
	})
}

// Update handles updating the caller's profile information.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ownerID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var payload struct {
		CompanyName string `json:"companyName"`
		Email       string `json:"email"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, payload.CompanyName, payload.Email)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to update user")
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully.",
		"user":    user,
	})
}

// Delete deactivates the caller's account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ownerID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to deactivate user")
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckUsername reports whether a username is free.
func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	available, err := h.service.UsernameAvailable(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	msg := "Username is available."
	if !available {
		msg = "Username is already in use."
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "available": available, "message": msg})
}

// CheckEmail reports whether an email address is free.
func (h *UserHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	available, err := h.service.EmailAvailable(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	msg := "Email is available."
	if !available {
		msg = "Email is already in use."
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "available": available, "message": msg})
}

// PasswordStrength scores a candidate password.
func (h *UserHandler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	s := validation.CheckStrength(payload.Password)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"strength": s.String(),
		"message":  s.Message(),
	})
}

func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid user id").WithField("id", "must be a positive integer")
	}
	return id, nil
}

// ownerID returns the {id} path parameter when it names the caller.
func ownerID(r *http.Request) (int64, error) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return 0, apperr.Auth("authentication required")
	}
	id, err := userID(r)
	if err != nil {
		return 0, err
	}
	if id != p.UserID {
		return 0, apperr.Authorization("cannot modify another user's account")
	}
	return id, nil
}
