package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/backoffice/internal/pkg"
)

const userIDContextKey = "user_id"

type userIDKey struct{}

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*pkg.TokenClaims, error)
}

// PermissionChecker reports whether a user holds a permission code.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uint, code string) (bool, error)
}

// Auth returns a middleware that requires a valid bearer token on every path
// except publicPaths. The authenticated user id is stored in the gin context,
// the request context, and the request's log attributes.
func Auth(tokens TokenParser, publicPaths []string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		SetUserID(c, userID)
		c.Next()
	}
}

// RequirePermission returns a middleware that rejects users lacking code.
// It must run after Auth.
func RequirePermission(checker PermissionChecker, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == 0 {
			abortJSON(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		ok, err := checker.HasPermission(c.Request.Context(), userID, code)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "permission check failed",
				slog.String("permission", code),
				slog.Any("error", err),
			)
			abortJSON(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			abortJSON(c, http.StatusForbidden, "missing permission "+code)
			return
		}
		c.Next()
	}
}

// SetUserID records the acting user for the rest of the request.
func SetUserID(c *gin.Context, userID uint) {
	c.Set(userIDContextKey, userID)
	ctx := context.WithValue(c.Request.Context(), userIDKey{}, userID)
	ctx = logger.WithContextAttrs(ctx, slog.Uint64("user_id", uint64(userID)))
	c.Request = c.Request.WithContext(ctx)
}

// UserID returns the authenticated user id, or 0 when the request is anonymous.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDContextKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// UserIDFromContext returns the authenticated user id stored by Auth, or 0.
func UserIDFromContext(ctx context.Context) uint {
	id, _ := ctx.Value(userIDKey{}).(uint)
	return id
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, pkg.Response{
		Code:    status,
		Message: message,
		Data:    nil,
	})
}
