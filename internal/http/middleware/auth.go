// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the bearer-token auth gate protecting every endpoint
// except /get-token. The scheme segment of the Authorization value is not
// validated beyond its presence; only the token segment is resolved.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/go-messager/internal/domain"
)

const (
	// ctxKeyUser is the Gin context key holding the authenticated *domain.User.
	ctxKeyUser = "user"
	// ctxKeyUserID is the Gin context key holding the authenticated user_name,
	// consumed by the logger and the edge rate limiter.
	ctxKeyUserID = "userID"
)

// AuthFunc resolves a bearer token to a user. It must return an error for an
// unknown token.
type AuthFunc func(ctx context.Context, token string) (*domain.User, error)

// BearerAuth returns a Gin middleware that authenticates the request via the
// Authorization header.
//
// Procedure: the header value is split on whitespace into (scheme, token);
// fewer than two segments, a missing header, or an unresolvable token abort
// the request through reject (which writes the canonical 401 body). On
// success the resolved user is stored in the context for handlers.
func BearerAuth(auth AuthFunc, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := strings.Fields(c.GetHeader("Authorization"))
		if len(fields) < 2 {
			reject(c)
			return
		}
		user, err := auth(c.Request.Context(), fields[1])
		if err != nil {
			reject(c)
			return
		}
		c.Set(ctxKeyUser, user)
		c.Set(ctxKeyUserID, user.UserName)
		c.Next()
	}
}

// UserFrom returns the authenticated user attached by BearerAuth, or nil when
// the request did not pass the gate.
func UserFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxKeyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
