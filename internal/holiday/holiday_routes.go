package holiday

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
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.Authorize(authorizer, "holiday", "read"), handler.GetAll)
		holidays.POST("", middleware.Authorize(authorizer, "holiday", "manage"), handler.Create)
		holidays.DELETE("/:id", middleware.Authorize(authorizer, "holiday", "manage"), handler.Delete)
	}
}
