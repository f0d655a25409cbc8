package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"zonewatch/internal/config"
	"zonewatch/internal/logger"
	"zonewatch/internal/middleware"
	"zonewatch/internal/models"
	"zonewatch/internal/services"

	"go.uber.org/zap"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	authSvc *services.AuthService
	logr    *logger.Logger
	cfg     *config.Config
}

func NewAuthHandler(svc *services.AuthService, logr *logger.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authSvc: svc, logr: logr, cfg: cfg}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ldapReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type tokenResp struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"access_expires_at"`
	User         *models.Profile `json:"user"`
}

// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	profile, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		h.logr.Warn("registration failed", zap.Error(err), zap.String("email", req.Email))
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// POST /auth/login
func (h *AuthHandler) LoginLocal(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	sess, err := h.authSvc.LoginLocal(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logr.Warn("local login failed", zap.Error(err), zap.String("email", req.Email))
		h.writeAuthError(w, err)
		return
	}
	h.writeSession(w, sess)
}

// POST /auth/ldap
func (h *AuthHandler) LoginLDAP(w http.ResponseWriter, r *http.Request) {
	var req ldapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	sess, err := h.authSvc.LoginLDAP(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logr.Warn("ldap login failed", zap.Error(err), zap.String("username", req.Username))
		h.writeAuthError(w, err)
		return
	}
	h.writeSession(w, sess)
}

// POST /auth/refresh  (reads refresh token from cookie OR body)
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	// prefer cookie if present
	if cookie, err := r.Cookie(refreshCookie); err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh token required")
		return
	}

	sess, err := h.authSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logr.Warn("refresh failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	h.writeSession(w, sess)
}

// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	officerID, ok := middleware.OfficerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.authSvc.Logout(r.Context(), officerID); err != nil {
		h.logr.Warn("logout failed", zap.Error(err), zap.String("officer_id", officerID))
		writeError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	// clear cookie
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	officerID, ok := middleware.OfficerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.authSvc.Profile(r.Context(), officerID)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	profile.AuthMethod = middleware.AuthMethodFromContext(r.Context())
	writeJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, sess *services.Session) {
	h.setRefreshCookie(w, sess.Tokens.RefreshToken, sess.Tokens.RefreshExp)
	writeJSON(w, http.StatusOK, tokenResp{
		AccessToken:  sess.Tokens.AccessToken,
		RefreshToken: sess.Tokens.RefreshToken,
		ExpiresAt:    sess.Tokens.AccessExp,
		User:         sess.Officer,
	})
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrLDAPDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrOfficerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logr.Error("auth request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}
