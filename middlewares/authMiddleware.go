package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaizenapp/kaizen_backend/models"
	"github.com/kaizenapp/kaizen_backend/utils"
)

// AuthMiddleware validates the bearer token and attaches its claims to the
// request context. Requests without an Authorization header pass through
// unauthenticated; route handlers that need a tenant reject them there.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = utils.SetTokenInContext(ctx, auth)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		ctx = utils.SetUserRoleInContext(ctx, claims.Role)
		ctx = utils.SetRestaurantIdInContext(ctx, claims.RestaurantId)
		if claims.Role == string(models.RoleSuperAdmin) {
			ctx = utils.SetIsSuperAdminInContext(ctx, true)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireTenant rejects requests whose token carries no tenant. Super admins
// may select a tenant explicitly via the X-Restaurant-Id header.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if isSuper, _ := utils.GetIsSuperAdminFromContext(ctx); isSuper {
			if override := c.GetHeader("X-Restaurant-Id"); override != "" {
				c.Request = c.Request.WithContext(utils.SetRestaurantIdInContext(ctx, override))
			}
			c.Next()
			return
		}

		if restaurantId, ok := utils.GetRestaurantIdFromContext(ctx); !ok || restaurantId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
