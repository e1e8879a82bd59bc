package coverage

import (
	"net/http"

	"leaveops/internal/shared/apperror"
	"leaveops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("coverage.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("coverage.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetTeamCalendar(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req TeamCalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("http team calendar validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	view, err := h.service.GetTeamCalendar(c.Request.Context(), companyID, req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("team calendar request failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, view, nil)
}
