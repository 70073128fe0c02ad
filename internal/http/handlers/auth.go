package handlers

import (
	"net/http"

	"jobconnect/internal/app"
	"jobconnect/internal/http/middleware"
	"jobconnect/internal/http/response"
)

type AuthHandler struct {
	auth *app.AuthService
}

func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type tokenResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    userSummary `json:"user"`
}

func writeSession(w http.ResponseWriter, status int, result *app.AuthResult) {
	response.JSON(w, status, tokenResponse{
		Success: true,
		Token:   result.Session.Token,
		User:    summaryOf(result.Session.User),
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterJobSeekerInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.RegisterJobSeeker(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeSession(w, http.StatusCreated, result)
}

func (h *AuthHandler) RegisterEmployer(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterEmployerInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.RegisterEmployer(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeSession(w, http.StatusCreated, result)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req app.SignupInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeSession(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req app.LoginInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeSession(w, http.StatusOK, result)
}

func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req app.SocialLoginInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.SocialLogin(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeSession(w, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	account, err := h.auth.Me(r.Context(), identity)
	if err != nil {
		response.Error(w, err)
		return
	}
	view, err := accountView(account)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "user": view})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if err := h.auth.Logout(r.Context(), token.ID, token.ExpiresAt); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}
