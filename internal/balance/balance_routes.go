package balance

import (
	"leaveops/internal/authz"
	"leaveops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer authz.Service,
) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", middleware.Authorize(authorizer, "balance", "read"), handler.GetBalances)
	}
}
