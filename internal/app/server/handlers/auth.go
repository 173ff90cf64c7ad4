package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
	"github.com/aelshh/Excalidraw-clone/internal/core/services"
	"github.com/aelshh/Excalidraw-clone/internal/platform/logger"
)

type AuthHandler struct {
	userSvc  *services.UserService
	tokenSvc *services.TokenService
}

func NewAuthHandler(u *services.UserService, t *services.TokenService) *AuthHandler {
	return &AuthHandler{userSvc: u, tokenSvc: t}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.ErrorContext(r.Context(), "auth handler - signup - bad request")
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}
	user, err := h.userSvc.Signup(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrInvalidPassword):
		log.ErrorContext(r.Context(), "auth handler - signup - invalid inputs", "email", req.Email)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid Inputs", "error": err.Error()})
		return
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already exists"})
		return
	case err != nil:
		log.ErrorContext(r.Context(), "auth handler - signup failed", "email", req.Email, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Some unexpected Error"})
		return
	}
	token, err := h.tokenSvc.GenerateToken(user.ID.String())
	if err != nil {
		log.ErrorContext(r.Context(), "auth handler - signup - generate token failed", "email", req.Email, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to generate token"})
		return
	}
	log.InfoContext(r.Context(), "auth handler - signup success", "email", req.Email, "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "You are signed up successfully",
		"token":   token,
	})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.ErrorContext(r.Context(), "auth handler - signin - bad request")
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}
	user, err := h.userSvc.Signin(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid Inputs"})
		return
	case errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User does not exist"})
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Incorrect Password"})
		return
	case err != nil:
		log.ErrorContext(r.Context(), "auth handler - signin failed", "email", req.Email, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Some unexpected Error"})
		return
	}
	token, err := h.tokenSvc.GenerateToken(user.ID.String())
	if err != nil {
		log.ErrorContext(r.Context(), "auth handler - signin - generate token failed", "email", req.Email, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to generate token"})
		return
	}
	log.InfoContext(r.Context(), "auth handler - signin success", "email", req.Email, "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "You are signed in successfully",
		"token":   token,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
