package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/responses"
)

// RegisterConversationRoutes registers conversation routes, all behind the
// session gate.
func RegisterConversationRoutes(router gin.IRouter, handler *handlers.ConversationHandler, gate gin.HandlerFunc) {
	router.GET("/conversations", gate, listConversations(handler))
	router.DELETE("/conversations", gate, deleteConversation(handler))
	router.GET("/messages/:conversationId", gate, conversationHistory(handler))
	router.PATCH("/delete", gate, clearConversation(handler))
}

// listConversations godoc
// @Summary      List conversation peers
// @Description  Distinct users the caller has exchanged messages with.
// @Tags         Conversations
// @Produce      json
// @Success      200 {array} responses.UserResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /conversations [get]
func listConversations(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		users, err := handler.Peers(ctx, session.UserID(ctx))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewUserListResponse(users))
	}
}

// deleteConversation godoc
// @Summary      Delete a conversation
// @Description  Removes the conversation and all of its messages.
// @Tags         Conversations
// @Produce      json
// @Param        conversationId query string true "Conversation ID"
// @Success      200 {object} responses.DeleteConversationResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /conversations [delete]
func deleteConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		result, err := handler.Delete(ctx, c.Query("conversationId"), session.UserID(ctx))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.DeleteConversationResponse{
			Success:         "Conversation deleted successfully",
			ConversationID:  result.Conversation.ID,
			MessagesDeleted: result.MessagesDeleted,
		})
	}
}

// conversationHistory godoc
// @Summary      Conversation history
// @Description  Messages of one conversation, oldest first, with sender details.
// @Tags         Conversations
// @Produce      json
// @Param        conversationId path string true "Conversation ID"
// @Success      200 {array} responses.ConversationMessageResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /messages/{conversationId} [get]
func conversationHistory(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		msgs, err := handler.History(ctx, c.Param("conversationId"), session.UserID(ctx))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewConversationMessagesResponse(msgs))
	}
}

// clearConversation godoc
// @Summary      Clear a conversation
// @Description  Deletes every message between the caller and otherUserId and keeps the conversation.
// @Tags         Conversations
// @Produce      json
// @Param        conversationId query string true "Conversation ID"
// @Param        otherUserId query string true "Other participant"
// @Success      200 {object} responses.ClearConversationResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /delete [patch]
func clearConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		conversationID := c.Query("conversationId")
		n, err := handler.Clear(ctx, conversationID, session.UserID(ctx), c.Query("otherUserId"))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.ClearConversationResponse{
			Message:        "All messages removed from the conversation",
			ConversationID: conversationID,
			Deleted:        n,
		})
	}
}
