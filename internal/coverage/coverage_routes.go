package coverage

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
	teams := r.Group("/teams")
	teams.Use(middleware.AuthMiddleware())
	{
		teams.GET("/calendar", middleware.Authorize(authorizer, "coverage", "read"), handler.GetTeamCalendar)
	}
}
