package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
	ContextUser   = "user"
)

// TokenCookie is the name of the cookie carrying the access token.
const TokenCookie = "token"

// Authenticator resolves a raw token to the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// ExtractToken reads the token from the cookie, then the Authorization
// header. allowQuery also accepts ?token= for websocket clients, which
// cannot set headers.
func ExtractToken(c *gin.Context, allowQuery bool) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

func authenticate(auth Authenticator, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c, allowQuery)
		if token == "" {
			utils.HandleError(c, utils.ErrUnauthenticated("authentication required"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, user.Role)
		c.Set(ContextToken, token)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// AuthMiddleware rejects requests without a valid token with 401.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, false)
}

// WebSocketAuthMiddleware is AuthMiddleware that also reads ?token=.
func WebSocketAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, true)
}

// RequireRoles lets through only the listed roles. It must run after
// AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			utils.HandleError(c, utils.ErrUnauthenticated("authentication required"))
			return
		}
		if !allowed[role] {
			utils.HandleError(c, utils.ErrForbidden(role+" access is not allowed here"))
			return
		}
		c.Next()
	}
}
