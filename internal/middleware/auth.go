package middleware

import (
	"agency-workspace/auth"
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
}

type Auth struct {
	UserService UserProvider
}

func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Unauthorized", nil))
			ctx.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Unauthorized", err))
			ctx.Abort()
			return
		}

		userID, tokenVersion, err := auth.GetDataFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Unauthorized", err))
			ctx.Abort()
			return
		}

		user, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil || !user.IsActive {
			ctx.Error(errors.Unauthorized("Unauthorized", err))
			ctx.Abort()
			return
		}

		// Check token version so logout invalidates old tokens
		if user.TokenVersion != tokenVersion {
			ctx.Error(errors.Unauthorized("Unauthorized", nil))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Set("user_role", user.Role)
		ctx.Next()
	}
}

// RequireRole gates a route group to the listed roles. Must run after
// AuthMiddleWare.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := ctx.GetString("user_role")
		for _, r := range roles {
			if role == r {
				ctx.Next()
				return
			}
		}
		ctx.Error(errors.Forbidden("Insufficient role", nil))
		ctx.Abort()
	}
}
