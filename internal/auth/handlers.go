package auth

import (
	"encoding/json"
	"net/http"

	"github.com/mtcolectivo/backend-colectivo/internal/common"
)

// Handler exposes HTTP handlers for the authentication endpoints.
type Handler struct {
	Service *Service
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	result, err := h.Service.Login(req.Username, req.Password)
	if err != nil {
		common.WriteAppError(w, err, "could not log in")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"account":                 result.Account,
			"access_token":            result.AccessToken,
			"access_token_expires_at": result.AccessExpiry,
		},
	})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	subject, ok := common.Subject(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	account, err := h.Service.Me(subject)
	if err != nil {
		common.WriteAppError(w, err, "unknown account")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": account})
}
