package leave

import (
	"leaveops/internal/authz"
	"leaveops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer authz.Service,
	redisClient *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(zap.L()))
	{
		leaves.POST("",
			middleware.Authorize(authorizer, "leave", "create"),
			middleware.RateLimitByEmployee(1, 5),
			middleware.Idempotency(redisClient),
			handler.Submit,
		)
		leaves.GET("", middleware.Authorize(authorizer, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.Authorize(authorizer, "leave", "read"), handler.GetByID)
		leaves.POST("/:id/approve", middleware.Authorize(authorizer, "leave", "decide"), handler.Approve)
		leaves.POST("/:id/reject", middleware.Authorize(authorizer, "leave", "decide"), handler.Reject)
		leaves.POST("/bulk-reject",
			middleware.Authorize(authorizer, "leave", "decide"),
			middleware.RateLimitByEmployee(0.5, 2),
			handler.BulkReject,
		)
		leaves.POST("/:id/cancel", middleware.Authorize(authorizer, "leave", "create"), handler.Cancel)
	}
}
