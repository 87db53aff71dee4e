package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/response"
)

func abortWith(c *gin.Context, status int, msg string) {
	resp := response.Error[any](c, status, msg, nil)
	c.AbortWithStatusJSON(resp.Status, resp)
}

// Auth validates the Bearer session token and re-checks the account against
// the store on every request, so deletions, suspensions and fresh lockouts
// take effect before the token expires. It sets userID, userRole and
// userVerified in the Gin context.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortWith(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				abortWith(c, http.StatusUnauthorized, "account no longer exists")
				return
			}
			abortWith(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if user.IsLocked(time.Now()) {
			abortWith(c, http.StatusLocked, "account temporarily locked")
			return
		}
		if user.IsSuspended() {
			abortWith(c, http.StatusForbidden, "account suspended")
			return
		}

		c.Set("userID", user.ID)
		c.Set("userRole", user.RoleName)
		c.Set("userVerified", user.IsVerified)
		c.Next()
	}
}

// RequireVerified rejects accounts that have not confirmed their email.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("userVerified") {
			abortWith(c, http.StatusForbidden, "email verification required")
			return
		}
		c.Next()
	}
}

// RequireRole restricts a route to the given roles. Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abortWith(c, http.StatusForbidden, "insufficient permissions")
	}
}

// RequireAdmin is shorthand for the admin-only surfaces.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entity.RoleAdmin)
}
