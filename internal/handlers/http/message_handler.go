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

// MessageHandler serves the message-history queries that back the chat UI:
// an offline recipient retrieves missed messages here on next connect.
type MessageHandler struct {
	messages services.MessageService
	tokens   services.TokenService
}

func NewMessageHandler(messages services.MessageService, tokens services.TokenService) *MessageHandler {
	return &MessageHandler{messages: messages, tokens: tokens}
}

func (h *MessageHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/messages")
	api.Use(middleware.AuthMiddleware(h.tokens))
	{
		api.GET("", h.History)
		api.DELETE("/:id", h.Delete)
	}
}

func (h *MessageHandler) History(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	withUser := c.Query("withUser")
	groupID := c.Query("groupId")

	switch {
	case withUser != "" && groupID != "":
		c.Error(errors.NewInvalidInputError("specify either withUser or groupId, not both"))
		return
	case withUser != "":
		msgs, err := h.messages.Conversation(c.Request.Context(), userID, domain.UserID(withUser), limit)
		if err != nil {
			c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to load conversation", http.StatusInternalServerError))
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	case groupID != "":
		msgs, err := h.messages.GroupHistory(c.Request.Context(), domain.GroupID(groupID), limit)
		if err != nil {
			c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to load group history", http.StatusInternalServerError))
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	default:
		c.Error(errors.NewInvalidInputError("withUser or groupId is required"))
	}
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	id := domain.MessageID(c.Param("id"))
	err := h.messages.Delete(c.Request.Context(), id, userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	case stderrors.Is(err, domain.ErrMessageNotFound):
		c.Error(errors.NewNotFoundError("message"))
	case stderrors.Is(err, domain.ErrNotMessageSender):
		c.Error(errors.NewForbiddenError("only the sender may delete a message"))
	default:
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to delete message", http.StatusInternalServerError))
	}
}
