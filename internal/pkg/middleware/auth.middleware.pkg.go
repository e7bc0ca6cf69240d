package middleware

import (
	"net/http"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		send := c.MustGet("send").(func(r *types.Response))
		if token == "" {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "token not found"}))
			c.Abort()
			return
		}

		user, err := jwt.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "invalid token", Error: err}))
			c.Abort()
			return
		}

		c.Set(types.AuthContextKey, *user)
		c.Next()
	}
}

// AuthUser returns the user set by AuthMiddleware.
func AuthUser(c *gin.Context) (types.UserWithAuth, bool) {
	v, ok := c.Get(types.AuthContextKey)
	if !ok {
		return types.UserWithAuth{}, false
	}
	user, ok := v.(types.UserWithAuth)
	return user, ok
}
