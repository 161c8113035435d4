package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/julienschmidt/httprouter"

	"kairooms/internal/auth"
	"kairooms/internal/users/service"
	httputil "kairooms/pkg/http"
	"kairooms/pkg/logger"
	"kairooms/pkg/model"
)

// avatarMemoryLimit caps how much of a multipart upload stays in memory
// before spilling to a temp file.
const avatarMemoryLimit = 2 << 20

type UserHandler struct {
	service service.UserService
	auth    *auth.Middleware
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, authMiddleware *auth.Middleware, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		auth:    authMiddleware,
		log:     log,
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/users/register", h.Register)
	router.POST("/api/users/verify", h.Verify)
	router.POST("/api/users/login", h.Login)
	router.POST("/api/users/forgot-password", h.ForgotPassword)
	router.POST("/api/users/reset-password/:token", h.ResetPassword)

	router.GET("/api/users/profile", h.auth.RequireAuth(h.Profile))
	router.PUT("/api/users/update-profile/:id", h.auth.RequireAuth(h.UpdateProfile))
	router.POST("/api/users/upload-avatar/:id", h.auth.RequireAuth(h.UploadAvatar))
	router.DELETE("/api/users/remove-avatar/:id", h.auth.RequireAuth(h.RemoveAvatar))

	router.PUT("/api/users/approve-user/:id", h.auth.RequireAuth(h.Approve))
	router.GET("/api/users/pending-users", h.auth.RequireAuth(h.PendingUsers))
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg model.Registration
	if !h.decode(w, r, &reg) {
		return
	}

	user, err := h.service.Register(r.Context(), &reg)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, user.Public()); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "error", err)
	}
}

func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var verification model.Verification
	if !h.decode(w, r, &verification) {
		return
	}

	if err := h.service.Verify(r.Context(), &verification); err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Email verified. Your account is awaiting admin approval."); err != nil {
		h.log.Error("failed to write response", "handler", "Verify", "error", err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if !h.decode(w, r, &creds) {
		return
	}

	signed, user, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	body := map[string]any{
		"token": signed,
		"user":  user.Public(),
	}
	if err := httputil.WriteJSON(w, http.StatusOK, body); err != nil {
		h.log.Error("failed to write response", "handler", "Login", "error", err)
	}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := auth.UserFrom(r.Context())

	if err := httputil.WriteSuccess(w, user.Public()); err != nil {
		h.log.Error("failed to write response", "handler", "Profile", "error", err)
	}
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ProfileUpdate
	if !h.decode(w, r, &update) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), auth.UserFrom(r.Context()), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "UpdateProfile", err)
		return
	}

	if err := httputil.WriteSuccess(w, user.Public()); err != nil {
		h.log.Error("failed to write response", "handler", "UpdateProfile", "error", err)
	}
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(avatarMemoryLimit); err != nil {
		h.writeJSON(w, "UploadAvatar", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Expected a multipart form with an 'avatar' file",
		})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.writeJSON(w, "UploadAvatar", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Missing 'avatar' file",
		})
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	user, err := h.service.UploadAvatar(r.Context(), auth.UserFrom(r.Context()), ps.ByName("id"), ext, file)
	if err != nil {
		h.writeError(w, "UploadAvatar", err)
		return
	}

	if err := httputil.WriteSuccess(w, user.Public()); err != nil {
		h.log.Error("failed to write response", "handler", "UploadAvatar", "error", err)
	}
}

func (h *UserHandler) RemoveAvatar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.RemoveAvatar(r.Context(), auth.UserFrom(r.Context()), ps.ByName("id")); err != nil {
		h.writeError(w, "RemoveAvatar", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Avatar removed."); err != nil {
		h.log.Error("failed to write response", "handler", "RemoveAvatar", "error", err)
	}
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email string `json:"email"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), body.Email); err != nil {
		h.writeError(w, "ForgotPassword", err)
		return
	}

	// same answer whether or not the account exists
	if err := httputil.WriteMessage(w, http.StatusOK, "If an account exists for this email, a reset link has been sent."); err != nil {
		h.log.Error("failed to write response", "handler", "ForgotPassword", "error", err)
	}
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var reset model.PasswordReset
	if !h.decode(w, r, &reset) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), ps.ByName("token"), &reset); err != nil {
		h.writeError(w, "ResetPassword", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Password updated. You can now log in."); err != nil {
		h.log.Error("failed to write response", "handler", "ResetPassword", "error", err)
	}
}

func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.Approve(r.Context(), auth.UserFrom(r.Context()), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Approve", err)
		return
	}

	if err := httputil.WriteSuccess(w, user.Public()); err != nil {
		h.log.Error("failed to write response", "handler", "Approve", "error", err)
	}
}

func (h *UserHandler) PendingUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.PendingUsers(r.Context(), auth.UserFrom(r.Context()))
	if err != nil {
		h.writeError(w, "PendingUsers", err)
		return
	}

	public := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	if err := httputil.WriteList(w, public, int64(len(public))); err != nil {
		h.log.Error("failed to write list response", "handler", "PendingUsers", "error", err)
	}
}

func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, "decode", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return false
	}
	return true
}

func (h *UserHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *UserHandler) writeJSON(w http.ResponseWriter, op string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", op, "error", err)
	}
}
