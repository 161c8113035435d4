package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "kairooms/pkg/errors"
	httputil "kairooms/pkg/http"
	"kairooms/pkg/logger"
	"kairooms/pkg/model"
	"kairooms/pkg/token"
)

// UserLoader resolves a token's subject to the live account record, so a
// deleted user cannot keep acting on an old token.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type Middleware struct {
	issuer *token.Issuer
	users  UserLoader
	log    *logger.Logger
}

func NewMiddleware(issuer *token.Issuer, users UserLoader, log *logger.Logger) *Middleware {
	return &Middleware{
		issuer: issuer,
		users:  users,
		log:    log,
	}
}

// RequireAuth rejects the request unless a valid bearer token resolves to an
// existing user. The user is placed on the context for the wrapped handle.
func (m *Middleware) RequireAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, err := m.Authenticate(r)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				m.log.Error("failed to write auth error response", "error", writeErr)
			}
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)), ps)
	}
}

// Authenticate verifies the Authorization header and loads the account. It
// is also used directly by the status endpoint, where a missing token is not
// an error.
func (m *Middleware) Authenticate(r *http.Request) (*model.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperrors.Unauthorized("Missing authorization header")
	}

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, apperrors.Unauthorized("Authorization header must be a bearer token")
	}

	claims, err := m.issuer.Verify(tokenStr)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	user, err := m.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		m.log.Warn("Token subject not found", "user_id", claims.UserID, "error", err)
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	return user, nil
}
