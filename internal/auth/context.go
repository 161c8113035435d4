// Package auth carries the authenticated user through the request context
// and guards routes that require a signed bearer token.
package auth

import (
	"context"

	"kairooms/pkg/model"
)

type contextKey string

const userKey contextKey = "current_user"

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user, or nil outside a guarded route.
func UserFrom(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}
