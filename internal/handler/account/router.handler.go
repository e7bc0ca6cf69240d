package account

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc) {
	account := e.Group("/v1/account", auth)

	account.GET("/user-info", h.UserInfo)
	account.POST("/address", h.SaveAddress)
}
