package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"kairooms/internal/auth"
	"kairooms/internal/auth/service"
	httputil "kairooms/pkg/http"
	"kairooms/pkg/logger"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	service    service.AuthService
	middleware *auth.Middleware
	log        *logger.Logger
}

func NewAuthHandler(service service.AuthService, middleware *auth.Middleware, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:    service,
		middleware: middleware,
		log:        log,
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/auth/google", h.GoogleLogin)
	router.GET("/api/auth/google/callback", h.GoogleCallback)
	router.POST("/api/auth/logout", h.Logout)
	router.GET("/api/auth/status", h.Status)
}

// GoogleLogin sends the browser to the consent screen. The anti-forgery
// state rides in a short-lived cookie and is checked on the way back.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	state, err := randomState()
	if err != nil {
		h.log.Error("failed to generate oauth state", "error", err)
		http.Error(w, "could not start login", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.LoginURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.log.Warn("OAuth callback with bad state")
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	// the state is single use
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})

	redirect := h.service.HandleCallback(r.Context(), r.URL.Query().Get("code"))
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

// Logout is informational: tokens are stateless, so the client drops its
// copy and the server has nothing to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteMessage(w, http.StatusOK, "Logged out."); err != nil {
		h.log.Error("failed to write response", "handler", "Logout", "error", err)
	}
}

// Status reports whether the caller holds a valid token. A missing or bad
// token is a normal answer here, not an error.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body := map[string]any{"authenticated": false}

	if user, err := h.middleware.Authenticate(r); err == nil {
		body["authenticated"] = true
		body["user"] = user.Public()
	}

	if err := httputil.WriteJSON(w, http.StatusOK, body); err != nil {
		h.log.Error("failed to write response", "handler", "Status", "error", err)
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
