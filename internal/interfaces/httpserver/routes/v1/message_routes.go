package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// RegisterMessageRoutes registers message routes. deleteGate guards the
// single-message delete, which only needs a session when sender ownership
// is enforced.
func RegisterMessageRoutes(router gin.IRouter, handler *handlers.MessageHandler, gate, deleteGate gin.HandlerFunc) {
	router.GET("/messages", gate, listMessages(handler))
	router.POST("/messages", gate, sendMessage(handler))
	router.DELETE("/delete/chat", deleteGate, deleteMessage(handler))
}

// listMessages godoc
// @Summary      Messages with a user
// @Description  Messages exchanged between the caller and receiver in either direction, oldest first.
// @Tags         Messages
// @Produce      json
// @Param        receiver query string true "Other user ID"
// @Success      200 {array} responses.MessageResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /messages [get]
func listMessages(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		msgs, err := handler.ListBetween(ctx, session.UserID(ctx), c.Query("receiver"))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewMessageListResponse(msgs))
	}
}

// sendMessage godoc
// @Summary      Send a message
// @Description  Stores a message to receiver, opening the conversation on first contact.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        request body requests.SendMessageRequest true "Message"
// @Success      201 {object} responses.MessageResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /messages [post]
func sendMessage(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "receiver and content are required", err, "7c3e1f95-message-bind")
			return
		}

		ctx := c.Request.Context()
		msg, err := handler.Send(ctx, session.UserID(ctx), &req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, responses.NewMessageResponse(msg))
	}
}

// deleteMessage godoc
// @Summary      Delete a message
// @Tags         Messages
// @Produce      json
// @Param        messageId query string true "Message ID"
// @Success      200 {object} responses.DeleteMessageResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /delete/chat [delete]
func deleteMessage(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := handler.Delete(ctx, c.Query("messageId"), session.UserID(ctx)); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.DeleteMessageResponse{Success: true, Message: "Message deleted"})
	}
}
