package http

import (
	"net/http"
	"strconv"

	stderrors "errors"

	"menthub/internal/core/domain"
	"menthub/internal/core/services"
	"menthub/internal/infrastructure/middleware"
	"menthub/pkg/errors"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications services.NotificationService
	tokens        services.TokenService
}

func NewNotificationHandler(notifications services.NotificationService, tokens services.TokenService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, tokens: tokens}
}

func (h *NotificationHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/notifications")
	api.Use(middleware.AuthMiddleware(h.tokens))
	{
		api.GET("", h.List)
		api.POST("/:id/read", h.MarkRead)
		api.POST("/read-all", h.MarkAllRead)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.notifications.List(c.Request.Context(), userID, limit)
	if err != nil {
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to load notifications", http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	id := domain.NotificationID(c.Param("id"))
	err := h.notifications.MarkRead(c.Request.Context(), id, userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"read": id})
	case stderrors.Is(err, domain.ErrNotificationNotFound):
		c.Error(errors.NewNotFoundError("notification"))
	default:
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to mark notification read", http.StatusInternalServerError))
	}
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to mark notifications read", http.StatusInternalServerError))
		return
	}
	c.Status(http.StatusNoContent)
}
