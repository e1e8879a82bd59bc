package policy

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
	policies := r.Group("/policies")
	policies.Use(middleware.AuthMiddleware())
	{
		policies.GET("", middleware.Authorize(authorizer, "policy", "read"), handler.Get)
		policies.PUT("", middleware.Authorize(authorizer, "policy", "manage"), handler.Update)
	}
}
